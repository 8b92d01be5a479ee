package gameservice

import (
	"bytes"
	"context"
	"fmt"

	gamedomain "github.com/Black-And-White-Club/coinche-bot/app/modules/game/domain"
	"github.com/Black-And-White-Club/coinche-bot/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colours the totals chart.
type ChartPalette struct {
	Background drawing.Color
	TextColor  drawing.Color
	Team1Line  drawing.Color
	Team2Line  drawing.Color
	Threshold  drawing.Color
}

// DefaultChartPalette is a green felt table with two contrasting lines.
var DefaultChartPalette = ChartPalette{
	Background: drawing.ColorFromHex("0f3d2e"),
	TextColor:  drawing.ColorFromHex("f2efe6"),
	Team1Line:  drawing.ColorFromHex("e0b84f"),
	Team2Line:  drawing.ColorFromHex("d9534f"),
	Threshold:  drawing.ColorFromHex("8fa39a"),
}

// RenderChart draws both teams' running totals as a PNG.
func (s *GameService) RenderChart(ctx context.Context, gameID uuid.UUID) (results.OperationResult[[]byte, error], error) {
	return withTelemetry(s, ctx, "RenderChart", gameID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
			_, session, err := s.loadSession(ctx, db, gameID, false)
			if err != nil {
				return loadFailure[[]byte](err)
			}
			png, err := GenerateTotalsChart(session, s.settings.ChartPalette)
			if err != nil {
				return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
			}
			return results.SuccessResult[[]byte, error](png), nil
		})
	})
}

// GenerateTotalsChart produces a PNG line chart of the running totals. Every
// line starts at zero before round 1.
func GenerateTotalsChart(session gamedomain.Session, palette ChartPalette) ([]byte, error) {
	rounds := session.Ledger.Rounds()
	if len(rounds) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	xValues := make([]float64, len(rounds)+1)
	totals := [2][]float64{make([]float64, len(rounds)+1), make([]float64, len(rounds)+1)}
	top := float64(session.VictoryThreshold)
	for i, r := range rounds {
		xValues[i+1] = float64(r.Number)
		for team := range totals {
			total := float64(r.Teams[team].Total)
			totals[team][i+1] = total
			top = max(top, total)
		}
	}

	lineStyle := func(c drawing.Color) chart.Style {
		return chart.Style{StrokeColor: c, StrokeWidth: 2, DotWidth: 4, DotColor: c}
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: session.Teams[0], XValues: xValues, YValues: totals[0], Style: lineStyle(palette.Team1Line)},
		chart.ContinuousSeries{Name: session.Teams[1], XValues: xValues, YValues: totals[1], Style: lineStyle(palette.Team2Line)},
		chart.ContinuousSeries{
			Name:    "Victory",
			XValues: []float64{0, xValues[len(xValues)-1]},
			YValues: []float64{float64(session.VictoryThreshold), float64(session.VictoryThreshold)},
			Style: chart.Style{
				StrokeColor:     palette.Threshold,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		},
	}

	textStyle := chart.Style{FontColor: palette.TextColor}
	graph := chart.Chart{
		Width:      800,
		Height:     400,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis: chart.XAxis{
			Name:           "Round",
			Style:          textStyle,
			ValueFormatter: chart.IntValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: textStyle,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor: palette.Background,
		FontColor: palette.TextColor,
	})}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No rounds played yet"
	)

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		// Render refuses a chart without a visible series.
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
