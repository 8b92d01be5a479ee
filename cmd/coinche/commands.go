package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	"github.com/Black-And-White-Club/coinche-bot/config"
	"github.com/Black-And-White-Club/coinche-bot/pkg/jwt"
	"github.com/urfave/cli/v2"
)

var teamLabels = [2]string{"team1", "team2"}

func newApp(out io.Writer, logger *slog.Logger) *cli.App {
	return &cli.App{
		Name:   "coinche",
		Usage:  "score Belote Coinchée rounds from the command line",
		Writer: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print machine readable output"},
		},
		Commands: []*cli.Command{
			{
				Name:   "score",
				Usage:  "score one round for both teams",
				Flags:  declarationFlags(),
				Action: scoreAction,
			},
			{
				Name:   "validate",
				Usage:  "check two declarations against the round rules",
				Flags:  declarationFlags(),
				Action: validateAction,
			},
			{
				Name:   "values",
				Usage:  "list every contract, realized, announcement and remark label",
				Action: valuesAction,
			},
			{
				Name:  "token",
				Usage: "mint an API token signed with the configured secret",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
					&cli.StringFlag{Name: "subject", Value: "cli", Usage: "token subject"},
					&cli.StringFlag{Name: "role", Value: string(jwt.RoleScorer), Usage: "scorer or viewer"},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (default from config)"},
				},
				Action: func(c *cli.Context) error {
					return tokenAction(c, logger)
				},
			},
		},
	}
}

func declarationFlags() []cli.Flag {
	var flags []cli.Flag
	for _, team := range teamLabels {
		flags = append(flags,
			&cli.StringFlag{Name: team + "-contract", Value: gamedomain.ContractNone.String()},
			&cli.StringFlag{Name: team + "-realized", Value: gamedomain.Realized(0).String()},
			&cli.StringFlag{Name: team + "-announcement", Value: gamedomain.AnnouncementNone.String()},
			&cli.StringFlag{Name: team + "-remark", Value: gamedomain.RemarkNone.String()},
		)
	}
	return flags
}

// declarations reads both teams' flags. Unlike the API, unknown labels are errors.
func declarations(c *cli.Context) ([2]gamedomain.Declaration, error) {
	var decls [2]gamedomain.Declaration
	for i, team := range teamLabels {
		contract, ok := gamedomain.ParseContract(c.String(team + "-contract"))
		if !ok {
			return decls, fmt.Errorf("%s: unknown contract %q", team, c.String(team+"-contract"))
		}
		realized, ok := gamedomain.ParseRealized(c.String(team + "-realized"))
		if !ok {
			return decls, fmt.Errorf("%s: unknown realized value %q", team, c.String(team+"-realized"))
		}
		announcement, ok := gamedomain.ParseAnnouncement(c.String(team + "-announcement"))
		if !ok {
			return decls, fmt.Errorf("%s: unknown announcement %q", team, c.String(team+"-announcement"))
		}
		remark, ok := gamedomain.ParseRemark(c.String(team + "-remark"))
		if !ok {
			return decls, fmt.Errorf("%s: unknown remark %q", team, c.String(team+"-remark"))
		}
		decls[i] = gamedomain.Declaration{
			Contract:     contract,
			Realized:     realized,
			Announcement: announcement,
			Remark:       remark,
		}
	}
	return decls, nil
}

func scoreAction(c *cli.Context) error {
	decls, err := declarations(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if err := gamedomain.ValidateRound(decls[0], decls[1]); err != nil {
		return cli.Exit(err, 1)
	}

	round := gamedomain.ScoreRound(nil, decls[0], decls[1])
	if c.Bool("json") {
		return writeJSON(c.App.Writer, round.Teams)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tCONTRACT\tREALIZED\tFULFILLED\tGAP\tTHEORETICAL\tPOINTS")
	for i, row := range round.Teams {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%d\t%d\t%d\n",
			i+1, row.Contract, row.Realized, row.Fulfilled, row.Gap, row.Theoretical, row.Points)
	}
	return tw.Flush()
}

func validateAction(c *cli.Context) error {
	decls, err := declarations(c)
	if err != nil {
		return cli.Exit(err, 2)
	}

	result := gamedomain.CheckRound(decls[0], decls[1])
	if c.Bool("json") {
		if err := writeJSON(c.App.Writer, result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintln(c.App.Writer, "valid")
	}
	if !result.Valid {
		return cli.Exit(result.Message, 1)
	}
	return nil
}

func valuesAction(c *cli.Context) error {
	ref := gamedomain.Reference()
	if c.Bool("json") {
		return writeJSON(c.App.Writer, ref)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	sections := []struct {
		name    string
		entries []gamedomain.ReferenceEntry
	}{
		{"contract", ref.Contracts},
		{"realized", ref.Realized},
		{"announcement", ref.Announcements},
	}
	fmt.Fprintln(tw, "KIND\tLABEL\tVALUE")
	for _, section := range sections {
		for _, e := range section.entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", section.name, e.Label, e.Value)
		}
	}
	for _, e := range ref.Remarks {
		fmt.Fprintf(tw, "remark\t%s\tx%d\n", e.Label, e.Multiplier)
	}
	return tw.Flush()
}

func tokenAction(c *cli.Context, logger *slog.Logger) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return cli.Exit("jwt secret is not configured", 2)
	}

	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.DefaultTTL)
	token, err := tokens.GenerateToken(c.String("subject"), jwt.Role(c.String("role")), c.Duration("ttl"))
	if err != nil {
		return cli.Exit(err, 2)
	}

	logger.Info("Token issued",
		slog.String("subject", c.String("subject")),
		slog.String("role", c.String("role")),
	)
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
