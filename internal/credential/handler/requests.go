package handler

import (
	"time"

	"civitas/internal/credential/models"
)

type issueRequest struct {
	Student     string `json:"student"`
	StudentName string `json:"student_name"`
	CourseName  string `json:"course_name"`
	IssuerName  string `json:"issuer_name"`
	MetadataURI string `json:"metadata_uri"`
}

type credentialResponse struct {
	Asset       string    `json:"asset"`
	Student     string    `json:"student"`
	Issuer      string    `json:"issuer"`
	StudentName string    `json:"student_name"`
	CourseName  string    `json:"course_name"`
	IssuerName  string    `json:"issuer_name"`
	MintTime    time.Time `json:"mint_time"`
}

func credentialResponseFrom(c *models.Credential) credentialResponse {
	return credentialResponse{
		Asset:       c.Asset.String(),
		Student:     c.Student.String(),
		Issuer:      c.Issuer.String(),
		StudentName: c.StudentName,
		CourseName:  c.CourseName,
		IssuerName:  c.IssuerName,
		MintTime:    c.MintTime,
	}
}

type credentialsResponse struct {
	Credentials []credentialResponse `json:"credentials"`
	Count       int                  `json:"count"`
}

type verifyResponse struct {
	Wallet          string `json:"wallet"`
	Verified        bool   `json:"verified"`
	CredentialCount int    `json:"credential_count"`
}
