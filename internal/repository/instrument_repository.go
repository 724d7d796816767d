package repository

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"newssense/internal/model"

	"github.com/lib/pq"
)

type InstrumentRepository struct {
	db *sql.DB
}

func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// Upsert creates the instrument on first refresh and overwrites its
// refreshed fields afterwards. Symbol is the identity key.
func (r *InstrumentRepository) Upsert(instrument *model.Instrument) error {
	history, err := json.Marshal(instrument.PriceHistory)
	if err != nil {
		return err
	}

	holdings, err := json.Marshal(instrument.Holdings)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO instrument(symbol, isin, name, type, amc, category, price_history, holdings, related_entities, last_updated)
		VALUES($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10)
		ON CONFLICT (symbol) DO UPDATE SET
			isin             = COALESCE(NULLIF(EXCLUDED.isin, ''), instrument.isin),
			name             = EXCLUDED.name,
			type             = EXCLUDED.type,
			price_history    = EXCLUDED.price_history,
			holdings         = EXCLUDED.holdings,
			related_entities = EXCLUDED.related_entities,
			last_updated     = EXCLUDED.last_updated
		RETURNING id
	`, instrument.Symbol, instrument.ISIN, instrument.Name, instrument.Type,
		instrument.AMC, instrument.Category, history, holdings,
		textArray(instrument.RelatedEntities), instrument.LastUpdated).Scan(&instrument.ID)
}

func (r *InstrumentRepository) GetBySymbol(symbol string) (*model.Instrument, error) {
	row := r.db.QueryRow(`
		SELECT id, symbol, COALESCE(isin, ''), name, type, COALESCE(amc, ''), COALESCE(category, ''),
		       price_history, holdings, related_entities, last_updated
		FROM instrument
		WHERE symbol = $1
	`, symbol)

	return scanInstrument(row)
}

func (r *InstrumentRepository) List(limit, offset int) ([]model.Instrument, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, COALESCE(isin, ''), name, type, COALESCE(amc, ''), COALESCE(category, ''),
		       price_history, holdings, related_entities, last_updated
		FROM instrument
		ORDER BY symbol
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInstruments(rows)
}

func (r *InstrumentRepository) Total() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM instrument`).Scan(&total)
	return total, err
}

// ListStale returns instruments never refreshed or refreshed before the
// cutoff, oldest first.
func (r *InstrumentRepository) ListStale(cutoff time.Time) ([]model.Instrument, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, COALESCE(isin, ''), name, type, COALESCE(amc, ''), COALESCE(category, ''),
		       price_history, holdings, related_entities, last_updated
		FROM instrument
		WHERE last_updated IS NULL OR last_updated < $1
		ORDER BY last_updated ASC NULLS FIRST
	`, cutoff)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInstruments(rows)
}

// ListIdentifiers returns the fields entity resolution needs, without
// the price history and holdings payloads.
func (r *InstrumentRepository) ListIdentifiers() ([]model.Instrument, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, COALESCE(isin, ''), name, related_entities
		FROM instrument
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []model.Instrument
	for rows.Next() {
		var i model.Instrument
		err := rows.Scan(&i.ID, &i.Symbol, &i.ISIN, &i.Name, pq.Array(&i.RelatedEntities))
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, i)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instruments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// textArray encodes a string slice for a TEXT[] NOT NULL column. A nil
// slice must encode as '{}'; pq.Array would encode it as SQL NULL and
// fail the constraint.
func textArray(values []string) driver.Valuer {
	if values == nil {
		values = []string{}
	}
	return pq.StringArray(values)
}

func scanInstrument(row rowScanner) (*model.Instrument, error) {
	var i model.Instrument
	var history, holdings []byte

	err := row.Scan(&i.ID, &i.Symbol, &i.ISIN, &i.Name, &i.Type, &i.AMC, &i.Category,
		&history, &holdings, pq.Array(&i.RelatedEntities), &i.LastUpdated)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(history, &i.PriceHistory); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(holdings, &i.Holdings); err != nil {
		return nil, err
	}

	return &i, nil
}

func collectInstruments(rows *sql.Rows) ([]model.Instrument, error) {
	var instruments []model.Instrument
	for rows.Next() {
		i, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, *i)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instruments, nil
}
