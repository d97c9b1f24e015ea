package history

// TransactionScope provides a convenient way to group commands using
// defer. Usage:
//
//	func doComplexEdit(log *history.Log) {
//	    defer log.TransactionScope("Complex Edit").End()
//	    // ... record multiple edits ...
//	}
type TransactionScope struct {
	log    *Log
	active bool
}

// TransactionScope starts a new transaction scope.
// Call End() or use with defer to properly close it.
func (l *Log) TransactionScope(name string) *TransactionScope {
	l.BeginTransaction(name)
	return &TransactionScope{log: l, active: true}
}

// End ends the scope. Safe to call multiple times; only the first call
// has effect.
func (s *TransactionScope) End() {
	if s.active {
		s.log.EndTransaction()
		s.active = false
	}
}

// Cancel discards the scope without creating a compound command.
// Commands already applied still affect the buffer.
func (s *TransactionScope) Cancel() {
	if s.active {
		s.log.CancelTransaction()
		s.active = false
	}
}

// Transaction runs fn within a transaction. If fn returns an error, the
// transaction is cancelled; otherwise it is ended normally.
func (l *Log) Transaction(name string, fn func() error) error {
	l.BeginTransaction(name)

	if err := fn(); err != nil {
		l.CancelTransaction()
		return err
	}

	l.EndTransaction()
	return nil
}
