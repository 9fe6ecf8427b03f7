package lead

import "fmt"

// Stage is a column of the sales Kanban board.
type Stage string

const (
	StageNewContact   Stage = "novo_contato"
	StageNegotiation  Stage = "em_negociacao"
	StageProposalSent Stage = "proposta_enviada"
	StageWon          Stage = "fechado"
	StageLost         Stage = "perdido"
)

// Stages lists the board columns in display order.
var Stages = []Stage{StageNewContact, StageNegotiation, StageProposalSent, StageWon, StageLost}

func ParseStage(s string) (Stage, error) {
	for _, st := range Stages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid lead stage: %s", s)
}

func (s Stage) String() string { return string(s) }

func (s Stage) IsClosed() bool {
	return s == StageWon || s == StageLost
}

// Source records how the lead entered the pipeline.
type Source string

const (
	SourceManual     Source = "manual"
	SourcePublicForm Source = "formulario_publico"
	SourceImport     Source = "importacao"
)

// ConsortiumType is the asset class the prospect wants to buy through a consortium.
type ConsortiumType string

const (
	ConsortiumRealEstate ConsortiumType = "imovel"
	ConsortiumVehicle    ConsortiumType = "veiculo"
	ConsortiumServices   ConsortiumType = "servicos"
	ConsortiumOther      ConsortiumType = "outro"
)

var ValidConsortiumTypes = map[ConsortiumType]bool{
	ConsortiumRealEstate: true,
	ConsortiumVehicle:    true,
	ConsortiumServices:   true,
	ConsortiumOther:      true,
}
