package handler

import "civitas/internal/registry/models"

type addIssuerRequest struct {
	Issuer string `json:"issuer"`
}

type fundPoolRequest struct {
	Amount uint64 `json:"amount"`
}

type platformResponse struct {
	Authority         string `json:"authority"`
	TotalProperties   uint64 `json:"total_properties"`
	TotalCertificates uint64 `json:"total_certificates"`
	SettlementAsset   string `json:"settlement_asset"`
	IssuerCount       int    `json:"issuer_count"`
}

func platformResponseFrom(p *models.Platform) platformResponse {
	return platformResponse{
		Authority:         p.Authority.String(),
		TotalProperties:   p.TotalProperties,
		TotalCertificates: p.TotalCertificates,
		SettlementAsset:   p.SettlementAsset.String(),
		IssuerCount:       len(p.AuthorizedIssuers),
	}
}

type issuersResponse struct {
	Issuers []string `json:"issuers"`
	Count   int      `json:"count"`
}

type checkIssuerResponse struct {
	Issuer     string `json:"issuer"`
	Authorized bool   `json:"authorized"`
}
