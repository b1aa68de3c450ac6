package health

// Service reports liveness and which optional collaborators are configured.
type Service struct {
	llmConfigured bool
	cacheEnabled  bool
}

// NewService constructs a health service.
func NewService(llmConfigured, cacheEnabled bool) *Service {
	return &Service{llmConfigured: llmConfigured, cacheEnabled: cacheEnabled}
}

// Status returns the health payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{
		"ok":            true,
		"llmConfigured": s.llmConfigured,
		"cacheEnabled":  s.cacheEnabled,
	}
}
