package gameservice

import (
	"context"
	"errors"
	"fmt"

	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/coinche-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/attr"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateGame stores a new empty game.
func (s *GameService) CreateGame(ctx context.Context, req CreateGameRequest) (results.OperationResult[*GameView, error], error) {
	return withTelemetry(s, ctx, "CreateGame", req.Team1Name+" vs "+req.Team2Name, func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
			if req.VictoryThreshold < 0 {
				return results.FailureResult[*GameView, error](gamedomain.ErrInvalidThreshold), nil
			}
			threshold := req.VictoryThreshold
			if threshold == 0 {
				threshold = s.settings.DefaultVictoryThreshold
			}

			session := gamedomain.NewSession(req.Team1Name, req.Team2Name, threshold)
			game := &gamedb.Game{UUID: uuid.New()}
			applySession(game, session)
			if err := s.repo.Upsert(ctx, db, game); err != nil {
				return results.OperationResult[*GameView, error]{}, err
			}

			if s.metrics != nil {
				s.metrics.RecordGameCreated(ctx)
			}
			return results.SuccessResult[*GameView, error](newGameView(game.UUID, session)), nil
		})
	})
}

// GetGame returns the current state of a game.
func (s *GameService) GetGame(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*GameView, error], error) {
	return withTelemetry(s, ctx, "GetGame", gameID.String(), func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
			_, session, err := s.loadSession(ctx, db, gameID, false)
			if err != nil {
				return loadFailure[*GameView](err)
			}
			return results.SuccessResult[*GameView, error](newGameView(gameID, session)), nil
		})
	})
}

// AddRound validates and commits one round.
func (s *GameService) AddRound(ctx context.Context, gameID uuid.UUID, team1, team2 gamedomain.Declaration) (results.OperationResult[*RoundAdded, error], error) {
	return withTelemetry(s, ctx, "AddRound", gameID.String(), func(ctx context.Context) (results.OperationResult[*RoundAdded, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*RoundAdded, error], error) {
			game, session, err := s.loadSession(ctx, db, gameID, true)
			if err != nil {
				return loadFailure[*RoundAdded](err)
			}

			_, hadWinner := session.Winner()
			next, round, err := session.AddRound(team1, team2, s.settings.RequireSeating)
			if err != nil {
				if gamedomain.IsRejection(err) {
					if s.metrics != nil {
						s.metrics.RecordRoundRejected(ctx, rejectionReason(err))
					}
					return results.FailureResult[*RoundAdded, error](err), nil
				}
				return results.OperationResult[*RoundAdded, error]{}, err
			}

			applySession(game, next)
			if err := s.repo.Upsert(ctx, db, game); err != nil {
				return results.OperationResult[*RoundAdded, error]{}, err
			}
			if err := s.repo.InsertRounds(ctx, db, roundRecord(gameID, round)); err != nil {
				return results.OperationResult[*RoundAdded, error]{}, err
			}

			out := &RoundAdded{Game: newGameView(gameID, next), Round: round}
			if winner, ok := next.Winner(); ok && !hadWinner {
				out.NewWinner = &winner
				s.logger.InfoContext(ctx, "Victory threshold reached",
					attr.ExtractCorrelationID(ctx),
					attr.String("game_id", gameID.String()),
					attr.Int("team", winner+1),
					attr.Int("round", round.Number),
				)
				if s.metrics != nil {
					s.metrics.RecordVictory(ctx, winner)
				}
			}
			if s.metrics != nil {
				s.metrics.RecordRoundAdded(ctx, declaredContract(round).String())
			}
			return results.SuccessResult[*RoundAdded, error](out), nil
		})
	})
}

// UndoRound removes the most recent round.
func (s *GameService) UndoRound(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*RoundUndone, error], error) {
	return withTelemetry(s, ctx, "UndoRound", gameID.String(), func(ctx context.Context) (results.OperationResult[*RoundUndone, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*RoundUndone, error], error) {
			game, session, err := s.loadSession(ctx, db, gameID, true)
			if err != nil {
				return loadFailure[*RoundUndone](err)
			}

			next, removed, err := session.UndoRound()
			if errors.Is(err, gamedomain.ErrNoRounds) {
				return results.FailureResult[*RoundUndone, error](err), nil
			}
			if err != nil {
				return results.OperationResult[*RoundUndone, error]{}, err
			}

			if err := s.repo.DeleteRound(ctx, db, gameID, removed.Number); err != nil {
				return results.OperationResult[*RoundUndone, error]{}, err
			}
			applySession(game, next)
			if err := s.repo.Upsert(ctx, db, game); err != nil {
				return results.OperationResult[*RoundUndone, error]{}, err
			}

			if s.metrics != nil {
				s.metrics.RecordRoundUndone(ctx)
			}
			return results.SuccessResult[*RoundUndone, error](&RoundUndone{
				Game:  newGameView(gameID, next),
				Round: removed,
			}), nil
		})
	})
}

// RestartGame clears the ledger and keeps teams and seating.
func (s *GameService) RestartGame(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*GameView, error], error) {
	return withTelemetry(s, ctx, "RestartGame", gameID.String(), func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
			game, session, err := s.loadSession(ctx, db, gameID, true)
			if err != nil {
				return loadFailure[*GameView](err)
			}

			next := session.Restart()
			if err := s.repo.DeleteRounds(ctx, db, gameID); err != nil {
				return results.OperationResult[*GameView, error]{}, err
			}
			applySession(game, next)
			if err := s.repo.Upsert(ctx, db, game); err != nil {
				return results.OperationResult[*GameView, error]{}, err
			}

			if s.metrics != nil {
				s.metrics.RecordGameRestarted(ctx)
			}
			return results.SuccessResult[*GameView, error](newGameView(gameID, next)), nil
		})
	})
}

// RenameTeam changes a team name. team is 0 or 1.
func (s *GameService) RenameTeam(ctx context.Context, gameID uuid.UUID, team int, name string) (results.OperationResult[*GameView, error], error) {
	return s.updateSession(ctx, "RenameTeam", gameID, func(session gamedomain.Session) (gamedomain.Session, error) {
		if team != 0 && team != 1 {
			return session, ErrInvalidTeam
		}
		return session.RenameTeam(team, name)
	})
}

// SetSeating places the four players and picks the dealer.
func (s *GameService) SetSeating(ctx context.Context, gameID uuid.UUID, players [4]string, dealer int) (results.OperationResult[*GameView, error], error) {
	return s.updateSession(ctx, "SetSeating", gameID, func(session gamedomain.Session) (gamedomain.Session, error) {
		return session.SetSeating(players, dealer)
	})
}

// GetStatistics summarises a game.
func (s *GameService) GetStatistics(ctx context.Context, gameID uuid.UUID) (results.OperationResult[*gamedomain.Statistics, error], error) {
	return withTelemetry(s, ctx, "GetStatistics", gameID.String(), func(ctx context.Context) (results.OperationResult[*gamedomain.Statistics, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*gamedomain.Statistics, error], error) {
			_, session, err := s.loadSession(ctx, db, gameID, false)
			if err != nil {
				return loadFailure[*gamedomain.Statistics](err)
			}
			stats := gamedomain.ComputeStatistics(session.Ledger)
			return results.SuccessResult[*gamedomain.Statistics, error](&stats), nil
		})
	})
}

// updateSession applies a header transition that does not touch the ledger.
func (s *GameService) updateSession(
	ctx context.Context,
	operationName string,
	gameID uuid.UUID,
	transition func(gamedomain.Session) (gamedomain.Session, error),
) (results.OperationResult[*GameView, error], error) {
	return withTelemetry(s, ctx, operationName, gameID.String(), func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
			game, session, err := s.loadSession(ctx, db, gameID, true)
			if err != nil {
				return loadFailure[*GameView](err)
			}

			next, err := transition(session)
			if err != nil {
				return results.FailureResult[*GameView, error](err), nil
			}

			applySession(game, next)
			if err := s.repo.Upsert(ctx, db, game); err != nil {
				return results.OperationResult[*GameView, error]{}, err
			}
			return results.SuccessResult[*GameView, error](newGameView(gameID, next)), nil
		})
	})
}

// loadSession reads a game and replays its rounds.
func (s *GameService) loadSession(ctx context.Context, db bun.IDB, gameID uuid.UUID, lock bool) (*gamedb.Game, gamedomain.Session, error) {
	var (
		game *gamedb.Game
		err  error
	)
	if lock {
		game, err = s.repo.GetForUpdate(ctx, db, gameID)
	} else {
		game, err = s.repo.GetByUUID(ctx, db, gameID)
	}
	if err != nil {
		return nil, gamedomain.Session{}, err
	}

	session, err := sessionFromGame(game)
	if err != nil {
		return nil, gamedomain.Session{}, err
	}
	return game, session, nil
}

// loadFailure reports a missing game as a failure result and anything else as an error.
func loadFailure[S any](err error) (results.OperationResult[S, error], error) {
	if errors.Is(err, gamedb.ErrNotFound) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, fmt.Errorf("failed to load game: %w", err)
}

// declaredContract returns the contract held by either team, or None.
func declaredContract(r gamedomain.Round) gamedomain.Contract {
	for _, row := range r.Teams {
		if row.Contract.Declared() {
			return row.Contract
		}
	}
	return gamedomain.ContractNone
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, gamedomain.ErrMultipleContracts):
		return "multiple_contracts"
	case errors.Is(err, gamedomain.ErrMirroredRemark):
		return "mirrored_remark"
	case errors.Is(err, gamedomain.ErrAnnouncementOverflow):
		return "announcement_overflow"
	case errors.Is(err, gamedomain.ErrIncompleteRound):
		return "incomplete_round"
	case errors.Is(err, gamedomain.ErrSeatingRequired):
		return "seating_required"
	default:
		return "other"
	}
}
