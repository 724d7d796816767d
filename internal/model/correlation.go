package model

import "time"

type ImpactType string

const (
	ImpactDirect   ImpactType = "DIRECT"
	ImpactIndirect ImpactType = "INDIRECT"
	ImpactSector   ImpactType = "SECTOR"
	ImpactMacro    ImpactType = "MACRO"
)

// CorrelationEdge links one article to one instrument. At most one edge
// exists per (instrument, article) pair; the score and impact are fixed
// at creation.
type CorrelationEdge struct {
	ID           int64
	InstrumentID int64
	ArticleID    int64
	Score        float64
	Impact       ImpactType
	CreatedAt    time.Time
}
