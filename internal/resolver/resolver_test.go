package resolver

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"newssense/internal/model"
)

type fakeRegistry struct {
	instruments []model.Instrument
	err         error
}

func (f *fakeRegistry) ListIdentifiers() ([]model.Instrument, error) {
	return f.instruments, f.err
}

func TestResolveExactSymbol(t *testing.T) {
	r := New(&fakeRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "AAPL", Name: "Apple Inc"},
		{ID: 2, Symbol: "MSFT", Name: "Microsoft Corporation"},
	}})

	symbols, err := r.Resolve("AAPL reported earnings")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"AAPL"}, symbols)
}

func TestResolveFuzzyNameMatch(t *testing.T) {
	r := New(&fakeRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "AAPL", Name: "Apple Inc"},
	}})

	// "appl" has no exact hit but is within the fuzzy threshold of
	// "apple".
	symbols, err := r.Resolve("appl")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"AAPL"}, symbols)
}

func TestResolveDissimilarTokenDoesNotMatch(t *testing.T) {
	r := New(&fakeRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "AAPL", Name: "Apple Inc"},
	}})

	symbols, err := r.Resolve("analyst atmosphere")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(symbols))
}

func TestResolveISIN(t *testing.T) {
	r := New(&fakeRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "AAPL", Name: "Apple Inc", ISIN: "US0378331005"},
	}})

	symbols, err := r.Resolve("holders of US0378331005 notified")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"AAPL"}, symbols)
}

func TestResolveAlias(t *testing.T) {
	r := New(&fakeRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", RelatedEntities: []string{"Vanguard"}},
	}})

	symbols, err := r.Resolve("vanguard flows hit a record")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"VTI"}, symbols)
}

func TestResolveOneTokenManyInstruments(t *testing.T) {
	r := New(&fakeRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "QQQ", Name: "Invesco QQQ Trust", RelatedEntities: []string{"nasdaq"}},
		{ID: 2, Symbol: "ONEQ", Name: "Fidelity Nasdaq Composite ETF"},
	}})

	symbols, err := r.Resolve("nasdaq closed higher")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"ONEQ", "QQQ"}, symbols)
}

func TestResolveEmptyText(t *testing.T) {
	r := New(&fakeRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "AAPL", Name: "Apple Inc"},
	}})

	symbols, err := r.Resolve("   ")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(symbols))
}

func TestResolveEmptyRegistry(t *testing.T) {
	r := New(&fakeRegistry{})

	symbols, err := r.Resolve("AAPL reported earnings")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(symbols))
}

func TestResolveRegistryError(t *testing.T) {
	r := New(&fakeRegistry{err: errors.New("db down")})

	_, err := r.Resolve("AAPL")
	assert.NotEqual(t, nil, err)
}
