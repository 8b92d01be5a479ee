package gameservice

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

const (
	gameSheet = "Game"

	fieldTeam1     = "Team 1"
	fieldTeam2     = "Team 2"
	fieldThreshold = "Victory Threshold"
	fieldDealer    = "Dealer"
	fieldSeat      = "Seat "
)

var teamSheets = [2]string{"Team 1", "Team 2"}

var scoresheetHeader = []any{
	"Round", "Contract", "Failed", "Realized", "Gap", "Theoretical Gap",
	"Theoretical", "Belote", "Remark", "Points", "Total",
}

// Zero-based columns read back on import. Every other column is derived.
const (
	colContract     = 1
	colRealized     = 3
	colAnnouncement = 7
	colRemark       = 8
)

// ExportScoresheet writes the game as an XLSX workbook.
func (s *GameService) ExportScoresheet(ctx context.Context, gameID uuid.UUID) (results.OperationResult[[]byte, error], error) {
	return withTelemetry(s, ctx, "ExportScoresheet", gameID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
			_, session, err := s.loadSession(ctx, db, gameID, false)
			if err != nil {
				return loadFailure[[]byte](err)
			}
			data, err := WriteScoresheet(session)
			if err != nil {
				return results.OperationResult[[]byte, error]{}, err
			}
			return results.SuccessResult[[]byte, error](data), nil
		})
	})
}

// ImportScoresheet creates a new game from a workbook produced by
// ExportScoresheet. Derived columns are recomputed.
func (s *GameService) ImportScoresheet(ctx context.Context, r io.Reader) (results.OperationResult[*GameView, error], error) {
	return withTelemetry(s, ctx, "ImportScoresheet", "upload", func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		session, err := ReadScoresheet(r)
		if err != nil {
			return results.FailureResult[*GameView, error](err), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
			game := &gamedb.Game{UUID: uuid.New()}
			applySession(game, session)
			if err := s.repo.Upsert(ctx, db, game); err != nil {
				return results.OperationResult[*GameView, error]{}, err
			}

			rounds := session.Ledger.Rounds()
			records := make([]*gamedb.RoundRecord, 0, len(rounds))
			for _, round := range rounds {
				records = append(records, roundRecord(game.UUID, round))
			}
			if err := s.repo.InsertRounds(ctx, db, records...); err != nil {
				return results.OperationResult[*GameView, error]{}, err
			}

			if s.metrics != nil {
				s.metrics.RecordGameCreated(ctx)
			}
			return results.SuccessResult[*GameView, error](newGameView(game.UUID, session)), nil
		})
	})
}

// WriteScoresheet renders a session as an XLSX workbook: a Game sheet with
// the header fields and one sheet per team with a line per round.
func WriteScoresheet(session gamedomain.Session) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gameSheet); err != nil {
		return nil, fmt.Errorf("failed to name game sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	fields := [][]any{
		{fieldTeam1, session.Teams[0]},
		{fieldTeam2, session.Teams[1]},
		{fieldThreshold, session.VictoryThreshold},
	}
	if session.Seating != nil {
		for i, player := range session.Seating.Players {
			fields = append(fields, []any{fieldSeat + strconv.Itoa(i+1), player})
		}
		dealer, _ := session.Dealer()
		fields = append(fields, []any{fieldDealer, dealer})
	}
	for i, row := range fields {
		if err := setRow(f, gameSheet, i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(gameSheet, "A", "B", 22); err != nil {
		return nil, err
	}

	rounds := session.Ledger.Rounds()
	for team, sheet := range teamSheets {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := setRow(f, sheet, 1, scoresheetHeader); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return nil, err
		}
		for i, round := range rounds {
			row := round.Teams[team]
			failed := ""
			if row.Contract.Declared() && !row.Fulfilled {
				failed = "X"
			}
			line := []any{
				round.Number, row.Contract.String(), failed, row.Realized.String(), row.Gap,
				row.TheoreticalGap, row.Theoretical, row.Announcement.String(), row.Remark.String(),
				row.Points, row.Total,
			}
			if err := setRow(f, sheet, i+2, line); err != nil {
				return nil, err
			}
		}
		if err := f.SetColWidth(sheet, "A", "K", 14); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write scoresheet: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// ReadScoresheet rebuilds a session from a workbook. Rounds are replayed
// through the ledger, so a workbook holding an invalid round is refused.
func ReadScoresheet(r io.Reader) (gamedomain.Session, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return gamedomain.Session{}, fmt.Errorf("%w: %w", ErrInvalidScoresheet, err)
	}
	defer f.Close()

	header, err := f.GetRows(gameSheet)
	if err != nil {
		return gamedomain.Session{}, fmt.Errorf("%w: missing %s sheet", ErrInvalidScoresheet, gameSheet)
	}
	fields := make(map[string]string, len(header))
	for _, row := range header {
		fields[strings.TrimSpace(cellAt(row, 0))] = strings.TrimSpace(cellAt(row, 1))
	}

	threshold := 0
	if v := fields[fieldThreshold]; v != "" {
		if threshold, err = strconv.Atoi(v); err != nil || threshold <= 0 {
			return gamedomain.Session{}, fmt.Errorf("%w: %w", ErrInvalidScoresheet, gamedomain.ErrInvalidThreshold)
		}
	}
	session := gamedomain.NewSession(fields[fieldTeam1], fields[fieldTeam2], threshold)

	if fields[fieldSeat+"1"] != "" {
		var players [4]string
		for i := range players {
			players[i] = fields[fieldSeat+strconv.Itoa(i+1)]
		}
		dealer := -1
		for i, p := range players {
			if p == fields[fieldDealer] {
				dealer = i
			}
		}
		if session, err = session.SetSeating(players, dealer); err != nil {
			return gamedomain.Session{}, fmt.Errorf("%w: %w", ErrInvalidScoresheet, err)
		}
	}

	var lines [2][][]string
	for team, sheet := range teamSheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return gamedomain.Session{}, fmt.Errorf("%w: missing %s sheet", ErrInvalidScoresheet, sheet)
		}
		for _, row := range rows[min(1, len(rows)):] {
			if strings.TrimSpace(cellAt(row, 0)) == "" {
				continue
			}
			lines[team] = append(lines[team], row)
		}
	}
	if len(lines[0]) != len(lines[1]) {
		return gamedomain.Session{}, fmt.Errorf("%w: team sheets have %d and %d rounds", ErrInvalidScoresheet, len(lines[0]), len(lines[1]))
	}

	pairs := make([][2]gamedomain.Declaration, len(lines[0]))
	for i := range pairs {
		for team := range pairs[i] {
			row := lines[team][i]
			d, err := parseDeclaration(cellAt(row, colContract), cellAt(row, colRealized), cellAt(row, colAnnouncement), cellAt(row, colRemark))
			if err != nil {
				return gamedomain.Session{}, fmt.Errorf("%w: %s line %d: %w", ErrInvalidScoresheet, teamSheets[team], i+2, err)
			}
			pairs[i][team] = d
		}
	}

	ledger, err := gamedomain.Replay(pairs)
	if err != nil {
		return gamedomain.Session{}, fmt.Errorf("%w: %w", ErrInvalidScoresheet, err)
	}
	session.Ledger = ledger
	return session, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
