package model

// IngestionSettings is the user-configurable policy gating the pipeline.
type IngestionSettings struct {
	BankConfigurations   []BankConfiguration
	ConfidenceThreshold  float64
	AutoDetectionEnabled bool
	AndroidSMSEnabled    bool
	NotificationsEnabled bool
	EmailParsingEnabled  bool
	ManualScanEnabled    bool
	AutoCategoryEnabled  bool
	DebugMode            bool
}

// DefaultIngestionSettings returns the settings used before any user
// configuration is applied.
func DefaultIngestionSettings() IngestionSettings {
	return IngestionSettings{
		AutoDetectionEnabled: true,
		ConfidenceThreshold:  0.5,
		AndroidSMSEnabled:    true,
		NotificationsEnabled: true,
		EmailParsingEnabled:  false,
		ManualScanEnabled:    true,
		AutoCategoryEnabled:  true,
	}
}

// SourceEnabled reports whether messages from the given source may enter the
// pipeline.
func (s IngestionSettings) SourceEnabled(source SourceType) bool {
	switch source {
	case SourceSMS:
		return s.AndroidSMSEnabled
	case SourceNotification:
		return s.NotificationsEnabled
	case SourceEmail:
		return s.EmailParsingEnabled
	case SourceManual:
		return s.ManualScanEnabled
	default:
		return false
	}
}

// SettingsPatch is a partial update to IngestionSettings; nil fields are
// left unchanged.
type SettingsPatch struct {
	AutoDetectionEnabled *bool
	ConfidenceThreshold  *float64
	AndroidSMSEnabled    *bool
	NotificationsEnabled *bool
	EmailParsingEnabled  *bool
	ManualScanEnabled    *bool
	AutoCategoryEnabled  *bool
	DebugMode            *bool
	BankConfigurations   []BankConfiguration
}

// Apply merges the patch into a copy of the settings and returns it.
func (p SettingsPatch) Apply(s IngestionSettings) IngestionSettings {
	if p.AutoDetectionEnabled != nil {
		s.AutoDetectionEnabled = *p.AutoDetectionEnabled
	}
	if p.ConfidenceThreshold != nil {
		s.ConfidenceThreshold = *p.ConfidenceThreshold
	}
	if p.AndroidSMSEnabled != nil {
		s.AndroidSMSEnabled = *p.AndroidSMSEnabled
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.EmailParsingEnabled != nil {
		s.EmailParsingEnabled = *p.EmailParsingEnabled
	}
	if p.ManualScanEnabled != nil {
		s.ManualScanEnabled = *p.ManualScanEnabled
	}
	if p.AutoCategoryEnabled != nil {
		s.AutoCategoryEnabled = *p.AutoCategoryEnabled
	}
	if p.DebugMode != nil {
		s.DebugMode = *p.DebugMode
	}
	if p.BankConfigurations != nil {
		s.BankConfigurations = p.BankConfigurations
	}
	return s
}
