package feature

// DefaultSchema returns the built-in schema for Palo Alto traffic and threat
// logs. Field names follow the firewall's CSV export columns after
// normalization.
func DefaultSchema() Schema {
	return Schema{
		Version: "pan-v1",
		Fields: []FieldSpec{
			{
				Field:     "severity",
				Transform: OneHot,
				Required:  true,
				Categories: []string{
					"critical", "high", "medium", "low", "informational",
				},
				DefaultCategory: "informational",
			},
			{
				Field:           "Type",
				Transform:       OneHot,
				Categories:      []string{"TRAFFIC", "THREAT", "SYSTEM", "CONFIG"},
				OtherBucket:     true,
				DefaultCategory: "TRAFFIC",
			},
			{
				Field:           "Action",
				Transform:       OneHot,
				Categories:      []string{"allow", "deny", "drop", "reset-both"},
				OtherBucket:     true,
				DefaultCategory: "allow",
			},
			{Field: "Bytes", Transform: Numeric},
			{Field: "Packets", Transform: Numeric},
			{Field: "Repeat Count", Transform: Numeric, Default: 1},
			{Field: "timestamp", Transform: HourOfDay, Default: 12},
		},
	}
}
