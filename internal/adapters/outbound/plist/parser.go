// Package plist decodes binary and XML property lists into the domain
// document tree.
package plist

import (
	"errors"
	"fmt"
	"os"
	"time"

	plistlib "howett.net/plist"

	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

// Parser implements domain.ProfileParser on top of howett.net/plist.
type Parser struct{}

// New creates a plist parser.
func New() *Parser { return &Parser{} }

// ParseFile reads and decodes a plist file into a domain.Value tree.
func (p *Parser) ParseFile(path string) (domain.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Value{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return domain.Value{}, err
	}
	return Parse(data)
}

// Parse decodes plist bytes (binary or XML) into a domain.Value tree.
func Parse(data []byte) (domain.Value, error) {
	var raw any
	if _, err := plistlib.Unmarshal(data, &raw); err != nil {
		return domain.Value{}, fmt.Errorf("decoding plist: %w", err)
	}
	return convert(raw)
}

// convert maps the decoder's generic representation onto the tagged
// union. Dictionary keys are sorted by the Dict constructor, which keeps
// validation order deterministic.
func convert(raw any) (domain.Value, error) {
	switch v := raw.(type) {
	case string:
		return domain.String(v), nil
	case bool:
		return domain.Boolean(v), nil
	case int:
		return domain.Integer(int64(v)), nil
	case int64:
		return domain.Integer(v), nil
	case uint64:
		return domain.Integer(int64(v)), nil
	case float32:
		return domain.Real(float64(v)), nil
	case float64:
		return domain.Real(v), nil
	case []byte:
		return domain.Data(v), nil
	case time.Time:
		return domain.Date(v), nil
	case []any:
		items := make([]domain.Value, 0, len(v))
		for _, item := range v {
			converted, err := convert(item)
			if err != nil {
				return domain.Value{}, err
			}
			items = append(items, converted)
		}
		return domain.Array(items...), nil
	case map[string]any:
		m := make(map[string]domain.Value, len(v))
		for key, item := range v {
			converted, err := convert(item)
			if err != nil {
				return domain.Value{}, err
			}
			m[key] = converted
		}
		return domain.Dict(m), nil
	}
	return domain.Value{}, fmt.Errorf("unsupported plist value of type %T", raw)
}
