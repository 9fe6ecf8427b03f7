package lead

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLead(t *testing.T) *Lead {
	t.Helper()
	l, err := NewLead(NewLeadParams{
		CompanyID:      1,
		Name:           "João Souza",
		Phone:          "+55 11 99999-0000",
		ConsortiumType: ConsortiumVehicle,
		CreditValue:    decimal.RequireFromString("85000.00"),
	})
	require.NoError(t, err)
	return l
}

func TestNewLead_Defaults(t *testing.T) {
	l := newTestLead(t)

	assert.Equal(t, StageNewContact, l.Stage())
	assert.Equal(t, SourceManual, l.Source())
	assert.True(t, l.CreditValue().Equal(decimal.NewFromInt(85000)))
}

func TestNewLead_Validation(t *testing.T) {
	_, err := NewLead(NewLeadParams{CompanyID: 1, Name: "Sem contato"})
	assert.Error(t, err)

	_, err = NewLead(NewLeadParams{CompanyID: 1, Name: "X", Email: "x@y.z", CreditValue: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	_, err = NewLead(NewLeadParams{CompanyID: 1, Name: "X", Email: "x@y.z", ConsortiumType: "barco"})
	assert.Error(t, err)
}

func TestLead_MoveTo(t *testing.T) {
	l := newTestLead(t)

	require.NoError(t, l.MoveTo(StageNegotiation, ""))
	assert.Equal(t, StageNegotiation, l.Stage())

	assert.Error(t, l.MoveTo(StageLost, " "))
	require.NoError(t, l.MoveTo(StageLost, "sem crédito aprovado"))
	assert.Equal(t, "sem crédito aprovado", l.LostReason())
	assert.True(t, l.Stage().IsClosed())

	require.NoError(t, l.MoveTo(StageNegotiation, ""))
	assert.Empty(t, l.LostReason())
}

func TestParseStage(t *testing.T) {
	st, err := ParseStage("proposta_enviada")
	require.NoError(t, err)
	assert.Equal(t, StageProposalSent, st)

	_, err = ParseStage("archived")
	assert.Error(t, err)
}
