package subscribers

import "github.com/solechain/core/internal/errs"

// Manager is the one-shot subscription builder of §4.12: the host
// registers subscribers via add_* methods, legal only before the
// matching create_* is called; each create_* may fire at most once,
// moving its accumulated subscribers into an aggregate and marking the
// slot used. Reusing a slot is an error.
type Manager struct {
	blockChange        []BlockChangeSubscriber
	transactionStatus  []TransactionStatusSubscriber
	stateChange        []StateChangeSubscriber
	node               []NodeSubscriber
	utChange           []ChangeSubscriber
	ptChange           []PtChangeSubscriber
	finalization       []FinalizationSubscriber

	blockChangeUsed       bool
	transactionStatusUsed bool
	stateChangeUsed       bool
	nodeUsed              bool
	utChangeUsed          bool
	ptChangeUsed          bool
	finalizationUsed      bool
}

// NewManager returns an empty subscription manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddBlockChange registers s. Legal only before CreateBlockChange.
func (m *Manager) AddBlockChange(s BlockChangeSubscriber) error {
	if m.blockChangeUsed {
		return errs.New(errs.MalformedData, "subscribers: block-change slot already created")
	}
	m.blockChange = append(m.blockChange, s)
	return nil
}

// CreateBlockChange moves all registered block-change subscribers into
// an aggregate and marks the slot used. Calling it twice is an error.
func (m *Manager) CreateBlockChange() (*BlockChangeAggregate, error) {
	if m.blockChangeUsed {
		return nil, errs.New(errs.MalformedData, "subscribers: block-change slot already created")
	}
	m.blockChangeUsed = true
	return &BlockChangeAggregate{subscribers: m.blockChange}, nil
}

// AddTransactionStatus registers s. Legal only before
// CreateTransactionStatus.
func (m *Manager) AddTransactionStatus(s TransactionStatusSubscriber) error {
	if m.transactionStatusUsed {
		return errs.New(errs.MalformedData, "subscribers: transaction-status slot already created")
	}
	m.transactionStatus = append(m.transactionStatus, s)
	return nil
}

// CreateTransactionStatus moves all registered subscribers into an
// aggregate and marks the slot used.
func (m *Manager) CreateTransactionStatus() (*TransactionStatusAggregate, error) {
	if m.transactionStatusUsed {
		return nil, errs.New(errs.MalformedData, "subscribers: transaction-status slot already created")
	}
	m.transactionStatusUsed = true
	return &TransactionStatusAggregate{subscribers: m.transactionStatus}, nil
}

// AddStateChange registers s. Legal only before CreateStateChange.
func (m *Manager) AddStateChange(s StateChangeSubscriber) error {
	if m.stateChangeUsed {
		return errs.New(errs.MalformedData, "subscribers: state-change slot already created")
	}
	m.stateChange = append(m.stateChange, s)
	return nil
}

// CreateStateChange moves all registered subscribers into an aggregate
// and marks the slot used.
func (m *Manager) CreateStateChange() (*StateChangeAggregate, error) {
	if m.stateChangeUsed {
		return nil, errs.New(errs.MalformedData, "subscribers: state-change slot already created")
	}
	m.stateChangeUsed = true
	return &StateChangeAggregate{subscribers: m.stateChange}, nil
}

// AddNode registers s. Legal only before CreateNode.
func (m *Manager) AddNode(s NodeSubscriber) error {
	if m.nodeUsed {
		return errs.New(errs.MalformedData, "subscribers: node slot already created")
	}
	m.node = append(m.node, s)
	return nil
}

// CreateNode moves all registered subscribers into an aggregate and
// marks the slot used.
func (m *Manager) CreateNode() (*NodeAggregate, error) {
	if m.nodeUsed {
		return nil, errs.New(errs.MalformedData, "subscribers: node slot already created")
	}
	m.nodeUsed = true
	return &NodeAggregate{subscribers: m.node}, nil
}

// AddUtChange registers s. Legal only before CreateUtChange.
func (m *Manager) AddUtChange(s ChangeSubscriber) error {
	if m.utChangeUsed {
		return errs.New(errs.MalformedData, "subscribers: ut-change slot already created")
	}
	m.utChange = append(m.utChange, s)
	return nil
}

// CreateUtChange moves all registered subscribers into an aggregate,
// marking the slot used, and reports whether any subscriber was
// registered — callers use this to choose between a plain and an
// aggregate-wrapped cache proxy (§4.12).
func (m *Manager) CreateUtChange() (*ChangeAggregate, bool, error) {
	if m.utChangeUsed {
		return nil, false, errs.New(errs.MalformedData, "subscribers: ut-change slot already created")
	}
	m.utChangeUsed = true
	return &ChangeAggregate{subscribers: m.utChange}, len(m.utChange) > 0, nil
}

// AddPtChange registers s. Legal only before CreatePtChange.
func (m *Manager) AddPtChange(s PtChangeSubscriber) error {
	if m.ptChangeUsed {
		return errs.New(errs.MalformedData, "subscribers: pt-change slot already created")
	}
	m.ptChange = append(m.ptChange, s)
	return nil
}

// CreatePtChange moves all registered subscribers into an aggregate,
// marking the slot used, and reports whether any subscriber was
// registered.
func (m *Manager) CreatePtChange() (*PtChangeAggregate, bool, error) {
	if m.ptChangeUsed {
		return nil, false, errs.New(errs.MalformedData, "subscribers: pt-change slot already created")
	}
	m.ptChangeUsed = true
	return &PtChangeAggregate{subscribers: m.ptChange}, len(m.ptChange) > 0, nil
}

// AddFinalization registers s. Legal only before CreateFinalization.
func (m *Manager) AddFinalization(s FinalizationSubscriber) error {
	if m.finalizationUsed {
		return errs.New(errs.MalformedData, "subscribers: finalization slot already created")
	}
	m.finalization = append(m.finalization, s)
	return nil
}

// CreateFinalization moves all registered subscribers into an aggregate
// and marks the slot used.
func (m *Manager) CreateFinalization() (*FinalizationAggregate, error) {
	if m.finalizationUsed {
		return nil, errs.New(errs.MalformedData, "subscribers: finalization slot already created")
	}
	m.finalizationUsed = true
	return &FinalizationAggregate{subscribers: m.finalization}, nil
}
