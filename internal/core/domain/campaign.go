package domain

import "time"

// CampaignSummary is the read-model a campaign overview panel renders.
type CampaignSummary struct {
	CampaignID string  `json:"campaign_id"`
	Name       string  `json:"name"`
	LiveCalls  int     `json:"live_calls"`
	TotalCalls int     `json:"total_calls"`
	Conversion float64 `json:"conversion"`
	SpendUSD   float64 `json:"spend_usd"`
}

// CallVolumePoint is one bucket of the live call-volume series.
type CallVolumePoint struct {
	Bucket time.Time `json:"bucket"`
	Calls  int       `json:"calls"`
}
