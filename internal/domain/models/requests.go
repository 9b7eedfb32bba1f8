package models

// Request shapes for the dashboard HTTP endpoints.

type HistoryRequest struct {
	Days int `query:"days" json:"days" default:"180" validate:"gte=1,lte=1000"`
}

type SelectRequest struct {
	AssetID string `json:"assetId"`
}

type ViewRequest struct {
	View string `json:"view" validate:"required,oneof=overview assetDetail longCycle"`
}
