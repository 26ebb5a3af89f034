package distance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"route-verifier/internal/cache"
	"route-verifier/internal/ids"
	"route-verifier/internal/matrix"
)

// locationProvider resolves ids to coordinates and memoizes results in
// the distance cache, keyed by raw ids and method
type locationProvider struct {
	method  Method
	locator Locator
	calc    Calculator
	cache   cache.Store
}

// NewLocationProvider combines a coordinate calculator with a locator and
// an optional cache (nil disables caching)
func NewLocationProvider(method Method, locator Locator, calc Calculator, store cache.Store) Provider {
	return &locationProvider{method: method, locator: locator, calc: calc, cache: store}
}

func (p *locationProvider) Method() Method { return p.method }

func (p *locationProvider) Distance(ctx context.Context, from, to string) (float64, error) {
	key := cache.Key{Origin: from, Destination: to, Method: string(p.method)}
	if p.cache != nil {
		if d, ok := p.cache.Get(key); ok {
			return d, nil
		}
	}

	origin, err := p.locator.Lookup(from)
	if err != nil {
		return 0, err
	}
	dest, err := p.locator.Lookup(to)
	if err != nil {
		return 0, err
	}

	d, err := p.calc.Between(ctx, origin.Coords(), dest.Coords())
	if err != nil {
		return 0, err
	}

	if p.cache != nil {
		p.cache.Put(key, d)
	}
	return d, nil
}

// maxSampleKeys bounds the key sample carried by NotFoundError
const maxSampleKeys = 10

// NotFoundError is returned when a pair is missing from the matrix
type NotFoundError struct {
	From           string
	To             string
	NormalizedFrom string
	NormalizedTo   string
	MissingOrigin  bool
	Available      []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "distance not found: %s → %s (original ids: %s → %s)", e.NormalizedFrom, e.NormalizedTo, e.From, e.To)
	if e.MissingOrigin {
		fmt.Fprintf(&b, "; origin '%s' not in matrix, available origins: [%s]", e.NormalizedFrom, strings.Join(e.Available, ", "))
	} else {
		fmt.Fprintf(&b, "; destination '%s' not available from '%s', available destinations: [%s]",
			e.NormalizedTo, e.NormalizedFrom, strings.Join(e.Available, ", "))
	}
	return b.String()
}

type matrixProvider struct {
	m *matrix.Matrix
}

// NewMatrixProvider looks distances up in a precomputed matrix after
// normalizing both ids
func NewMatrixProvider(m *matrix.Matrix) Provider {
	return &matrixProvider{m: m}
}

func (p *matrixProvider) Method() Method { return MethodMatrix }

func (p *matrixProvider) Distance(ctx context.Context, from, to string) (float64, error) {
	nFrom := ids.Normalize(from)
	nTo := ids.Normalize(to)

	if d, ok := p.m.Lookup(nFrom, nTo); ok {
		return d, nil
	}

	nf := &NotFoundError{From: from, To: to, NormalizedFrom: nFrom, NormalizedTo: nTo}
	if !p.m.HasOrigin(nFrom) {
		nf.MissingOrigin = true
		nf.Available = sample(p.m.Origins())
	} else {
		nf.Available = sample(p.m.Destinations(nFrom))
	}
	return 0, nf
}

func sample(keys []string) []string {
	if len(keys) > maxSampleKeys {
		return keys[:maxSampleKeys]
	}
	return keys
}

// Options carries what the strategies need beyond the method itself
type Options struct {
	Locator     Locator
	Cache       cache.Store
	Matrix      *matrix.Matrix
	OSRMURL     string
	OSRMTimeout time.Duration
}

// New builds the provider for a method. The matrix strategy ignores the
// cache.
func New(method Method, opts Options) (Provider, error) {
	if method.Cached() && opts.Locator == nil {
		return nil, fmt.Errorf("method %s needs a location registry", method)
	}
	switch method {
	case MethodHaversine:
		return NewLocationProvider(method, opts.Locator, GreatCircle{}, opts.Cache), nil
	case MethodGeodesic:
		return NewLocationProvider(method, opts.Locator, Geodesic{}, opts.Cache), nil
	case MethodOSRM:
		return NewLocationProvider(method, opts.Locator, NewOSRMCalculator(opts.OSRMURL, opts.OSRMTimeout), opts.Cache), nil
	case MethodMatrix:
		if opts.Matrix == nil {
			return nil, fmt.Errorf("distance matrix not loaded for method %s", method)
		}
		return NewMatrixProvider(opts.Matrix), nil
	default:
		return nil, &UnknownMethodError{Name: string(method)}
	}
}
