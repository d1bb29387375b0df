package setup

import (
	"reflect"

	"github.com/nullpilot/voyager/internal/application/common"
	ledgerCommands "github.com/nullpilot/voyager/internal/application/ledger/commands"
	ledgerQueries "github.com/nullpilot/voyager/internal/application/ledger/queries"
	"github.com/nullpilot/voyager/internal/application/mediator"
	"github.com/nullpilot/voyager/internal/domain/ledger"
	"github.com/nullpilot/voyager/internal/domain/shared"
)

// HandlerRegistry holds the dependencies needed to configure a mediator with
// the ledger command/query handlers shared across CLI commands.
type HandlerRegistry struct {
	transactionRepo ledger.TransactionRepository
	playerResolver  *common.PlayerResolver
	clock           shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	transactionRepo ledger.TransactionRepository,
	playerResolver *common.PlayerResolver,
	clock shared.Clock,
) *HandlerRegistry {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		transactionRepo: transactionRepo,
		playerResolver:  playerResolver,
		clock:           clock,
	}
}

// RegisterLedgerHandlers registers all ledger command and query handlers with the mediator
//
// This method registers:
//   - RecordTransactionCommand → RecordTransactionHandler (for async transaction recording)
//   - GetTransactionsQuery → GetTransactionsHandler (for transaction queries)
//   - GetProfitLossQuery → GetProfitLossHandler (for P&L reports)
//   - GetCashFlowQuery → GetCashFlowHandler (for cash flow reports)
func (r *HandlerRegistry) RegisterLedgerHandlers(m common.Mediator) error {
	recordHandler := ledgerCommands.NewRecordTransactionHandler(r.transactionRepo, r.clock)
	if err := m.Register(
		reflect.TypeOf(&ledgerCommands.RecordTransactionCommand{}),
		recordHandler,
	); err != nil {
		return err
	}

	getTransactionsHandler := ledgerQueries.NewGetTransactionsHandler(r.transactionRepo, r.playerResolver)
	if err := m.Register(
		reflect.TypeOf(&ledgerQueries.GetTransactionsQuery{}),
		getTransactionsHandler,
	); err != nil {
		return err
	}

	getProfitLossHandler := ledgerQueries.NewGetProfitLossHandler(r.transactionRepo)
	if err := m.Register(
		reflect.TypeOf(&ledgerQueries.GetProfitLossQuery{}),
		getProfitLossHandler,
	); err != nil {
		return err
	}

	getCashFlowHandler := ledgerQueries.NewGetCashFlowHandler(r.transactionRepo)
	if err := m.Register(
		reflect.TypeOf(&ledgerQueries.GetCashFlowQuery{}),
		getCashFlowHandler,
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a new mediator with the ledger handlers registered.
func (r *HandlerRegistry) CreateConfiguredMediator() (common.Mediator, error) {
	m := mediator.NewMediator()

	if err := r.RegisterLedgerHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
