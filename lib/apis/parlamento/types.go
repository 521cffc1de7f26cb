// Package parlamento holds typed shapes for the Parliament open-data
// feeds plus the snapshot fetcher. The upstream JSON is loosely typed
// (numeric ids sometimes arrive as strings), so decoding happens once
// here and the rest of the pipeline works on these structs.
package parlamento

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID tolerates feeds that serialize the same identifier as either
// a JSON number or a JSON string.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

func (f FlexID) Int() (int64, error) {
	return strconv.ParseInt(string(f), 10, 64)
}

// BaseInfo is the informacao_base feed: the roster of deputies,
// parliamentary groups and electoral districts for one legislature.
type BaseInfo struct {
	Deputados           []Deputado         `json:"Deputados"`
	GruposParlamentares []GrupoParlamentar `json:"GruposParlamentares"`
	CirculosEleitorais  []CirculoEleitoral `json:"CirculosEleitorais"`
}

type GrupoParlamentar struct {
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

type CirculoEleitoral struct {
	CpId  int64  `json:"cpId"`
	CpDes string `json:"cpDes"`
}

type Deputado struct {
	DepId              int64         `json:"DepId"`
	DepCadId           int64         `json:"DepCadId"`
	DepNomeCompleto    string        `json:"DepNomeCompleto"`
	DepNomeParlamentar string        `json:"DepNomeParlamentar"`
	DepCPId            int64         `json:"DepCPId"`
	LegDes             string        `json:"LegDes"`
	DepSituacao        []DepSituacao `json:"DepSituacao"`
	DepGP              []DepGP       `json:"DepGP"`
	DepCargo           []DepCargo    `json:"DepCargo"`
}

// DepSituacao is one mandate-status entry; dates are ISO strings and
// SioDtFim is empty for open-ended entries.
type DepSituacao struct {
	SioDes      string `json:"sioDes"`
	SioDtInicio string `json:"sioDtInicio"`
	SioDtFim    string `json:"sioDtFim"`
}

type DepGP struct {
	GpSigla    string `json:"gpSigla"`
	GpDtInicio string `json:"gpDtInicio"`
	GpDtFim    string `json:"gpDtFim"`
}

type DepCargo struct {
	CarId       int64  `json:"carId"`
	CarDes      string `json:"carDes"`
	CarDtInicio string `json:"carDtInicio"`
	CarDtFim    string `json:"carDtFim"`
}

// Iniciativa is one entry of the iniciativas feed.
type Iniciativa struct {
	IniId                       FlexID          `json:"IniId"`
	IniDescTipo                 string          `json:"IniDescTipo"`
	IniNr                       string          `json:"IniNr"`
	IniTitulo                   string          `json:"IniTitulo"`
	IniAutorDeputados           []AutorDeputado `json:"IniAutorDeputados"`
	IniAutorGruposParlamentares []AutorGrupo    `json:"IniAutorGruposParlamentares"`
	IniEventos                  []Evento        `json:"IniEventos"`
}

type AutorDeputado struct {
	IdCadastro FlexID `json:"idCadastro"`
	Nome       string `json:"nome"`
	GP         string `json:"GP"`
}

type AutorGrupo struct {
	GpId    int64  `json:"gpId"`
	GpSigla string `json:"gpSigla"`
}

type Evento struct {
	EvtId      FlexID    `json:"EvtId"`
	Fase       string    `json:"Fase"`
	CodigoFase string    `json:"CodigoFase"`
	DataFase   string    `json:"DataFase"`
	Votacao    []Votacao `json:"Votacao"`
}

type Votacao struct {
	Id        string `json:"id"`
	Data      string `json:"data"`
	Descricao string `json:"descricao"`
	Detalhe   string `json:"detalhe"`
	Resultado string `json:"resultado"`
	Reuniao   string `json:"reuniao"`
	Unanime   string `json:"unanime"`
}

// Atividades is the activities feed; only debates are consumed.
type Atividades struct {
	Debates []Debate `json:"Debates"`
}

type Debate struct {
	DebateId         FlexID   `json:"DebateId"`
	Assunto          string   `json:"Assunto"`
	AutoresDeputados string   `json:"AutoresDeputados"`
	AutoresGP        string   `json:"AutoresGP"`
	DataDebate       string   `json:"DataDebate"`
	Intervencoes     []string `json:"Intervencoes"`
	TipoDebateDesig  string   `json:"TipoDebateDesig"`
}

func (b *BaseInfo) Validate() error {
	if len(b.GruposParlamentares) == 0 {
		return fmt.Errorf("informacao_base: no parliamentary groups")
	}
	if len(b.CirculosEleitorais) == 0 {
		return fmt.Errorf("informacao_base: no electoral districts")
	}
	if len(b.Deputados) == 0 {
		return fmt.Errorf("informacao_base: no deputies")
	}
	for i, d := range b.Deputados {
		if d.DepId == 0 {
			return fmt.Errorf("informacao_base: deputy %d has no DepId", i)
		}
	}
	return nil
}
