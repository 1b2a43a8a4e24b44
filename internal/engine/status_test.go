package engine

import (
	"testing"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateStatusBuckets(t *testing.T) {
	cases := []struct {
		stock int
		rop   int
		want  domain.StockStatus
	}{
		{150, 698, domain.StatusCritical}, // 150 < 174.5
		{0, 100, domain.StatusCritical},
		{25, 100, domain.StatusLow},      // boundary 0.25*ROP favors lower urgency
		{49, 100, domain.StatusLow},      // 49 < 50
		{50, 100, domain.StatusModerate}, // boundary 0.5*ROP
		{99, 100, domain.StatusModerate},
		{100, 100, domain.StatusHealthy}, // boundary ROP
		{500, 100, domain.StatusHealthy},
		{0, 0, domain.StatusHealthy}, // zero ROP means nothing to reorder against
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, EvaluateStatus(tc.stock, tc.rop), "stock=%d rop=%d", tc.stock, tc.rop)
	}
}

func TestEvaluateStatusExhaustive(t *testing.T) {
	// Every (stock, ROP) pair lands in exactly one bucket.
	for rop := 0; rop <= 40; rop++ {
		for stock := 0; stock <= 60; stock++ {
			status := EvaluateStatus(stock, rop)
			switch status {
			case domain.StatusCritical, domain.StatusLow, domain.StatusModerate, domain.StatusHealthy:
			default:
				t.Fatalf("unexpected status %q for stock=%d rop=%d", status, stock, rop)
			}
		}
	}
}
