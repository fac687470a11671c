// Package present renders pipeline results as Telegram-safe HTML. HTML
// parse mode is used deliberately: Markdown dialects break on unescaped
// entities in model-generated text.
package present

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pepetopia/topi/internal/market"
	"github.com/pepetopia/topi/internal/reply"
)

// Escape escapes text for Telegram HTML parse mode.
func Escape(text string) string {
	return html.EscapeString(text)
}

// scoreIcon maps a total score to a tier marker.
func scoreIcon(score int) string {
	switch {
	case score >= 90:
		return "🔥"
	case score >= 75:
		return "🟢"
	case score >= 50:
		return "🟡"
	default:
		return "🔴"
	}
}

// RenderSession renders a reply session as an HTML message: header with the
// active persona, the model's one-line analysis, the ranked candidates with
// scores, rationales and risk flags, and the serving model as footer. The
// recommended candidate is starred.
func RenderSession(s *reply.Session) string {
	var lines []string

	switch s.Persona.Name {
	case "engineer":
		lines = append(lines, "👨‍💻 <b>ARCHITECT OUTPUT</b>")
	default:
		lines = append(lines, "🔮 <b>VISIONARY OUTPUT</b>")
	}

	if s.Analysis != "" {
		lines = append(lines, fmt.Sprintf("📊 <i>%s</i>", Escape(s.Analysis)))
	}
	lines = append(lines, "")

	for _, cand := range s.Candidates {
		star := ""
		if cand.ID == s.RecommendedID {
			star = " ⭐"
		}
		angle := ""
		if cand.Angle != "" {
			angle = " — " + Escape(cand.Angle)
		}
		lines = append(lines, fmt.Sprintf("<b>#%d%s</b> %s <b>%d</b>%s",
			cand.ID, angle, scoreIcon(cand.ScoreTotal), cand.ScoreTotal, star))
		lines = append(lines, fmt.Sprintf("<code>%s</code>", Escape(cand.Text)))
		if cand.Rationale != "" {
			lines = append(lines, fmt.Sprintf("<i>%s</i>", Escape(cand.Rationale)))
		}
		if len(cand.RiskFlags) > 0 {
			flags := make([]string, len(cand.RiskFlags))
			for i, f := range cand.RiskFlags {
				flags[i] = Escape(f)
			}
			lines = append(lines, "⚠️ "+strings.Join(flags, ", "))
		}
		lines = append(lines, "")
	}

	lines = append(lines, fmt.Sprintf("⚙️ <pre>%s</pre>", Escape(s.Model)))
	return strings.Join(lines, "\n")
}

// RenderDigest renders one development-report part for investors.
func RenderDigest(content, author string, date time.Time) string {
	return fmt.Sprintf(
		"🚀 <b>DAILY DEVELOPMENT REPORT</b>\n\n%s\n\n👨‍💻 <i>Developer:</i> %s\n📅 <i>Date:</i> %s",
		Escape(content),
		Escape(author),
		date.Format("02.01.2006"),
	)
}

// RenderTicker renders a market snapshot for the /price command.
func RenderTicker(t *market.Ticker) string {
	arrow := "📈"
	if t.ChangePercent < 0 {
		arrow = "📉"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <b>%s</b> (%s)\n\n", Escape(t.Name), Escape(t.Symbol))
	fmt.Fprintf(&b, "Price: <b>$%.6f</b>\n", t.PriceUSD)
	fmt.Fprintf(&b, "%s 24h: <b>%+.2f%%</b>\n", arrow, t.ChangePercent)
	fmt.Fprintf(&b, "High/Low: $%.6f / $%.6f\n", t.High24h, t.Low24h)
	fmt.Fprintf(&b, "Volume: %.0f\n\n", t.Volume24h)
	fmt.Fprintf(&b, "<a href=\"%s\">Trade on AscendEX</a>", t.TradeURL)
	return b.String()
}

// RenderError renders a secret-free operator-facing failure notice.
func RenderError(kind string) string {
	return fmt.Sprintf("⚠️ <b>%s</b>\nThe session was abandoned; nothing was posted. Try again in a minute.", Escape(kind))
}
