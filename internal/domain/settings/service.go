package settings

import "context"

// Provider serves cached settings. Get may return a snapshot up to one TTL old.
type Provider interface {
	Get(ctx context.Context) (Snapshot, error)
	Refresh(ctx context.Context) (Snapshot, error)
	Invalidate()
}

// PublicSettingsResponse is what the LIFF app may read without a token.
type PublicSettingsResponse struct {
	CompanyName       string  `json:"company_name"`
	WorkStartTime     string  `json:"work_start_time"`
	WorkEndTime       string  `json:"work_end_time"`
	LateThreshold     int     `json:"late_threshold_minutes"`
	CheckinRadius     float64 `json:"checkin_radius_meters"`
	GeofenceEnforced  bool    `json:"geofence_enforced"`
	ActiveOfficeCount int     `json:"active_office_count"`
}

func ToPublic(s Snapshot) PublicSettingsResponse {
	resp := PublicSettingsResponse{
		CompanyName:      s.CompanyName,
		WorkStartTime:    s.Policy.StandardStartTime.String(),
		WorkEndTime:      s.Policy.StandardEndTime.String(),
		LateThreshold:    s.Policy.LateThresholdMinutes,
		GeofenceEnforced: s.GeofenceEnforced,
	}
	active := s.ActiveOffices()
	resp.ActiveOfficeCount = len(active)
	if len(active) > 0 {
		resp.CheckinRadius = active[0].RadiusMeters
	}
	return resp
}
