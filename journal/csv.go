package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	tradeHeader  = []string{"game_id", "trade_id", "side", "quantity", "entry_price", "exit_price", "open_date", "close_date", "realized_pl", "reason"}
	equityHeader = []string{"game_id", "day", "date", "price", "balance", "equity", "margin_used", "floating_pl", "profit", "news"}
)

// CSVJournal writes trades and equity to two CSV files, flushing after every
// record so an interrupted game still leaves a readable journal.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSVJournal{trades: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.write(j.trades, tradeHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.GameID,
		t.TradeID,
		t.Side,
		strconv.FormatInt(t.Quantity, 10),
		t.EntryPrice.String(),
		t.ExitPrice.String(),
		t.OpenDate.Format(time.DateOnly),
		t.CloseDate.Format(time.DateOnly),
		t.RealizedPL.String(),
		t.Reason,
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	return j.write(j.equity, []string{
		e.GameID,
		strconv.Itoa(e.Day),
		e.Date.Format(time.DateOnly),
		e.Price.String(),
		e.Balance.String(),
		e.Equity.String(),
		e.MarginUsed.String(),
		e.FloatingPL.String(),
		e.Profit.String(),
		e.News,
	})
}

func (j *CSVJournal) write(w *csv.Writer, rec []string) error {
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.equity.Flush()
	werr := j.trades.Error()
	if werr == nil {
		werr = j.equity.Error()
	}

	terr := j.tf.Close()
	eerr := j.ef.Close()
	switch {
	case werr != nil:
		return werr
	case terr != nil:
		return terr
	default:
		return eerr
	}
}
