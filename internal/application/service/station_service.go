package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/station-report/internal/application/port"
	"github.com/garyjia/station-report/internal/domain/report"
	"github.com/garyjia/station-report/internal/domain/station"
)

// OriginChange describes what the host should do after an origin toggle
type OriginChange struct {
	Origin       station.Origin `json:"origin"`
	RequestFocus bool           `json:"request_focus"`
}

// StationResolver decides the effective station name and remembers the last one used
type StationResolver struct {
	store   port.PersistenceStore
	options []string
	logger  Logger

	origin   station.Origin
	selected string
	manual   string
}

// NewStationResolver creates a resolver in the first-run state; call Load to restore
func NewStationResolver(store port.PersistenceStore, options []string, logger Logger) *StationResolver {
	return &StationResolver{
		store:   store,
		options: append([]string(nil), options...),
		logger:  logger,
		origin:  station.OriginSelect,
	}
}

// Options returns the selectable station list
func (r *StationResolver) Options() []string {
	return append([]string(nil), r.options...)
}

// Current returns the origin and the raw value for that origin
func (r *StationResolver) Current() station.Name {
	if r.origin == station.OriginManual {
		return station.Name{Value: r.manual, Origin: station.OriginManual}
	}
	return station.Name{Value: r.selected, Origin: station.OriginSelect}
}

// EffectiveName returns the station name reports should carry
func (r *StationResolver) EffectiveName() (string, error) {
	var name string
	if r.origin == station.OriginManual {
		name = strings.TrimSpace(r.manual)
	} else {
		name = r.selected
	}

	if name == "" {
		return "", report.ErrEmptyStation
	}
	return name, nil
}

// SetOrigin toggles between the option list and manual entry.
// Entering manual clears the buffer and asks the host to focus the input.
// Leaving an empty manual buffer resets the selection to empty without persisting anything.
// Leaving a filled one carries the name over as the selection and saves it.
func (r *StationResolver) SetOrigin(ctx context.Context, origin station.Origin) (OriginChange, error) {
	if !origin.IsValid() {
		return OriginChange{}, fmt.Errorf("invalid station origin %q", origin)
	}

	if origin == station.OriginManual {
		r.origin = station.OriginManual
		r.manual = ""
		return OriginChange{Origin: origin, RequestFocus: true}, nil
	}

	if r.origin != station.OriginManual {
		return OriginChange{Origin: station.OriginSelect}, nil
	}

	manual := strings.TrimSpace(r.manual)
	r.origin = station.OriginSelect
	r.selected = manual
	r.manual = ""
	if manual == "" {
		return OriginChange{Origin: station.OriginSelect}, nil
	}
	if err := r.Save(ctx, station.OriginSelect, manual); err != nil {
		return OriginChange{}, err
	}
	return OriginChange{Origin: station.OriginSelect}, nil
}

// Select picks an entry of the option list and saves it
func (r *StationResolver) Select(ctx context.Context, value string) error {
	r.origin = station.OriginSelect
	r.selected = value
	return r.Save(ctx, station.OriginSelect, value)
}

// SetManual records manual input and saves it when non-empty
func (r *StationResolver) SetManual(ctx context.Context, value string) error {
	r.origin = station.OriginManual
	r.manual = value
	return r.Save(ctx, station.OriginManual, value)
}

// Blur handles the manual input losing focus. An empty buffer falls back to
// the option list with nothing selected.
func (r *StationResolver) Blur(ctx context.Context) error {
	if r.origin != station.OriginManual {
		return nil
	}
	if strings.TrimSpace(r.manual) == "" {
		r.origin = station.OriginSelect
		r.selected = ""
		return nil
	}
	return r.Save(ctx, station.OriginManual, r.manual)
}

// Save persists (origin, value). Empty values never overwrite a prior record.
func (r *StationResolver) Save(ctx context.Context, origin station.Origin, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if !origin.IsValid() {
		return fmt.Errorf("invalid station origin %q", origin)
	}

	err := r.store.Put(ctx, map[string]string{
		station.KeyName:   value,
		station.KeyOrigin: origin.String(),
	})
	if err != nil {
		r.logger.Error("Failed to save station name", "error", err, "origin", origin)
		return fmt.Errorf("save station name: %w", err)
	}
	return nil
}

// Load restores the last saved station, defaulting to (select, "") on first run
func (r *StationResolver) Load(ctx context.Context) (station.Name, error) {
	value, hasValue, err := r.store.Get(ctx, station.KeyName)
	if err != nil {
		return station.Name{}, fmt.Errorf("load station name: %w", err)
	}
	origin, hasOrigin, err := r.store.Get(ctx, station.KeyOrigin)
	if err != nil {
		return station.Name{}, fmt.Errorf("load station origin: %w", err)
	}

	r.origin = station.OriginSelect
	r.selected = ""
	r.manual = ""

	if !hasValue || !hasOrigin || value == "" {
		return station.Default(), nil
	}

	switch station.Origin(origin) {
	case station.OriginManual:
		r.origin = station.OriginManual
		r.manual = value
	case station.OriginSelect:
		r.selected = value
	default:
		r.logger.Info("Ignoring stored station with unknown origin", "origin", origin)
		return station.Default(), nil
	}

	r.logger.Info("Station name restored", "station", value, "origin", origin)
	return r.Current(), nil
}
