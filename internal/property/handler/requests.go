package handler

import (
	"civitas/internal/property/models"
	"civitas/internal/property/service"
)

type registerRequest struct {
	Name        string `json:"name"`
	TotalValue  uint64 `json:"total_value"`
	TotalTokens uint64 `json:"total_tokens"`
	MetadataURI string `json:"metadata_uri"`
}

type acquireSharesRequest struct {
	Quantity uint64 `json:"quantity"`
}

type propertyResponse struct {
	Asset           string  `json:"asset"`
	Name            string  `json:"name"`
	TotalValue      uint64  `json:"total_value"`
	TotalTokens     uint64  `json:"total_tokens"`
	TokensSold      uint64  `json:"tokens_sold"`
	TokensAvailable uint64  `json:"tokens_available"`
	OwnershipSold   float64 `json:"ownership_sold"`
	MetadataURI     string  `json:"metadata_uri"`
}

func propertyResponseFrom(p *models.Property) propertyResponse {
	return propertyResponse{
		Asset:           p.Asset.String(),
		Name:            p.Name,
		TotalValue:      p.TotalValue,
		TotalTokens:     p.TotalTokens,
		TokensSold:      p.TokensSold,
		TokensAvailable: p.TokensAvailable(),
		OwnershipSold:   p.OwnershipSoldPercent(),
		MetadataURI:     p.MetadataURI,
	}
}

type propertiesResponse struct {
	Properties []propertyResponse `json:"properties"`
	Count      int                `json:"count"`
}

type acquireSharesResponse struct {
	Property propertyResponse `json:"property"`
	Buyer    string           `json:"buyer"`
	Quantity uint64           `json:"quantity"`
}

type claimYieldResponse struct {
	Asset    string `json:"asset"`
	Claimant string `json:"claimant"`
	Payout   uint64 `json:"payout"`
}

type holdingsResponse struct {
	Wallet   string            `json:"wallet"`
	Holdings []holdingResponse `json:"holdings"`
}

type holdingResponse struct {
	Property         propertyResponse `json:"property"`
	Balance          uint64           `json:"balance"`
	EstimatedMonthly uint64           `json:"estimated_monthly_yield"`
}

func holdingResponseFrom(h service.Holding) holdingResponse {
	estimated, err := h.Property.YieldFor(h.Balance)
	if err != nil {
		estimated = 0
	}
	return holdingResponse{
		Property:         propertyResponseFrom(h.Property),
		Balance:          h.Balance,
		EstimatedMonthly: estimated,
	}
}
