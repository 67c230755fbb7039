package service

import (
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComputeBalances сворачивает стартовые балансы периода и его транзакции в
// баланс по каждому инструменту. Считается с нуля на каждый вызов - балансы
// дешево вывести из леджера и они никогда не должны с ним разъезжаться,
// поэтому никакого инкрементального состояния не хранится.
func ComputeBalances(periodID uuid.UUID, balances []models.PeriodBalance, transactions []models.Transaction, instrumentNames map[uuid.UUID]string) *models.PeriodBalances {
	index := make(map[uuid.UUID]*models.InstrumentBalance)
	var order []uuid.UUID

	for _, b := range balances {
		name := instrumentNames[b.InstrumentID]
		if b.Instrument != nil {
			name = b.Instrument.Name
		}
		index[b.InstrumentID] = &models.InstrumentBalance{
			InstrumentID:   b.InstrumentID,
			InstrumentName: name,
			StartingAmount: b.StartingAmount,
			CurrentBalance: b.StartingAmount,
		}
		order = append(order, b.InstrumentID)
	}

	for _, tx := range transactions {
		entry, ok := index[tx.InstrumentID]
		if !ok {
			// транзакция по инструменту без стартовой строки - заводим
			// нулевую запись лениво
			entry = &models.InstrumentBalance{
				InstrumentID:   tx.InstrumentID,
				InstrumentName: instrumentNames[tx.InstrumentID],
			}
			index[tx.InstrumentID] = entry
			order = append(order, tx.InstrumentID)
		}

		switch tx.Kind {
		case models.TransactionKindIncome:
			entry.TotalIncome = entry.TotalIncome.Add(tx.Amount)
		case models.TransactionKindExpense:
			entry.TotalExpense = entry.TotalExpense.Add(tx.Amount)
		}
		entry.CurrentBalance = entry.StartingAmount.Add(entry.TotalIncome).Sub(entry.TotalExpense)
	}

	result := &models.PeriodBalances{
		PeriodID:       periodID,
		OverallBalance: decimal.Zero,
	}
	for _, id := range order {
		result.Balances = append(result.Balances, *index[id])
		result.OverallBalance = result.OverallBalance.Add(index[id].CurrentBalance)
	}
	return result
}
