package application

import (
	"github.com/Talieisin/mobileconfig-validator/internal/domain"
	"github.com/Talieisin/mobileconfig-validator/internal/domain/profile"
)

// ValidateService validates mobileconfig files against ProfileManifests
// schemas, sharing one resolver (and its lazy manifest cache) across a
// whole batch.
type ValidateService struct {
	validator *profile.Validator
}

// NewValidateService creates a ValidateService with the given parser and
// manifest resolver.
func NewValidateService(parser domain.ProfileParser, resolver domain.ManifestResolver) *ValidateService {
	return &ValidateService{validator: profile.New(parser, resolver)}
}

// ValidateFile validates a single profile.
func (s *ValidateService) ValidateFile(path string) *domain.ValidationResult {
	return s.validator.ValidateFile(path)
}

// ValidateFiles validates profiles in order. Each file is validated
// independently; one bad file never affects the others.
func (s *ValidateService) ValidateFiles(paths []string) *domain.BatchResult {
	batch := &domain.BatchResult{Results: make([]*domain.ValidationResult, 0, len(paths))}
	for _, path := range paths {
		batch.Results = append(batch.Results, s.validator.ValidateFile(path))
	}
	return batch
}
