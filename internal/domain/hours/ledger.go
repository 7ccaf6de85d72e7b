package hours

import (
	"encoding/json"
	"slices"
)

// WorkRecord credits hours to a subject on one day.
type WorkRecord struct {
	Date    string  `json:"data"`
	Subject Subject `json:"nome"`
	Hours   float64 `json:"horas"`

	// Set only for records ingested from a report message.
	MessageID   *uint64 `json:"mensagem_id,omitempty"`
	ProcessedAt string  `json:"processado_em,omitempty"`
	TenantID    uint64  `json:"servidor_id,omitempty"`
	TenantName  string  `json:"servidor_nome,omitempty"`

	Manual       bool    `json:"adicionado_manual,omitempty"`
	AddedBy      string  `json:"adicionado_por,omitempty"`
	AddedAt      string  `json:"adicionado_em,omitempty"`
	ModifiedAt   string  `json:"modificado_em,omitempty"`
	ModifiedBy   string  `json:"modificado_por,omitempty"`
	HoursRemoved float64 `json:"horas_removidas,omitempty"`
}

// Day parses the record date.
func (r WorkRecord) Day() (Date, error) {
	return ParseDate(r.Date)
}

func (r WorkRecord) FromMessage() bool {
	return r.MessageID != nil
}

// sameSource reports whether both records were ingested from the same message for the same subject and day.
func (r WorkRecord) sameSource(o WorkRecord) bool {
	if r.MessageID == nil || o.MessageID == nil {
		return false
	}
	return *r.MessageID == *o.MessageID && r.Date == o.Date && r.Subject.Same(o.Subject)
}

// Ledger is the full record history of one tenant.
type Ledger struct {
	Users   map[string]json.RawMessage `json:"usuarios"`
	Records []WorkRecord               `json:"registros"`
}

func NewLedger() *Ledger {
	return &Ledger{
		Users:   map[string]json.RawMessage{},
		Records: []WorkRecord{},
	}
}

// AppendIfNew adds r unless an ingested record with the same (date, subject, message) already exists.
// Manual records are always added.
func (l *Ledger) AppendIfNew(r WorkRecord) bool {
	if r.FromMessage() {
		for _, existing := range l.Records {
			if existing.sameSource(r) {
				return false
			}
		}
	}
	l.Records = append(l.Records, r)
	return true
}

func (l *Ledger) Len() int {
	return len(l.Records)
}

// Clone returns a deep copy safe to read while the original is being mutated.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Users:   make(map[string]json.RawMessage, len(l.Users)),
		Records: make([]WorkRecord, len(l.Records)),
	}
	for k, v := range l.Users {
		c.Users[k] = slices.Clone(v)
	}
	for i, r := range l.Records {
		if r.MessageID != nil {
			id := *r.MessageID
			r.MessageID = &id
		}
		c.Records[i] = r
	}
	return c
}

// Normalize fills in nil collections so the persisted form always has both keys.
func (l *Ledger) Normalize() *Ledger {
	if l.Users == nil {
		l.Users = map[string]json.RawMessage{}
	}
	if l.Records == nil {
		l.Records = []WorkRecord{}
	}
	return l
}
