package discord

import (
	"fmt"

	"fightback-bot/internal/service"

	"github.com/bwmarrin/discordgo"
)

const (
	colorBlue   = 0x3498db
	colorGreen  = 0x2ecc71
	colorOrange = 0xe67e22
	colorGold   = 0xf1c40f
)

func matchReportEmbed(report *service.MatchReport) *discordgo.MessageEmbed {
	title := fmt.Sprintf("🏆 Match #%d Recorded!", report.MatchNumber)
	if report.Edited {
		title = fmt.Sprintf("✏ Match #%d Updated!", report.MatchNumber)
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: fmt.Sprintf("🔥 %s vs %s", report.Player1.Name, report.Player2.Name),
				Value: fmt.Sprintf("**Final Score:** `%d - %d`",
					report.Player1.Score, report.Player2.Score),
			},
			outcomeField(report.Player1),
			outcomeField(report.Player2),
		},
	}
}

func outcomeField(o service.PlayerOutcome) *discordgo.MessageEmbedField {
	arrow := "📈"
	if o.PointsAfter < o.PointsBefore {
		arrow = "📉"
	}
	return &discordgo.MessageEmbedField{
		Name: fmt.Sprintf("%s %s Stats", arrow, o.Name),
		Value: fmt.Sprintf("**Points:** `%d ➡ %d (%+d)`\n**Rank:** `%s ➡ %s`",
			o.PointsBefore, o.PointsAfter, o.PointsAfter-o.PointsBefore,
			o.TierBefore, o.TierAfter),
	}
}

func historyEmbed(history []service.MatchSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📜 Match History (Last %d Matches)", len(history)),
		Color: colorGreen,
	}

	for _, m := range history {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Match #%d: %s vs %s", m.MatchNumber, m.Player1Name, m.Player2Name),
			Value: fmt.Sprintf("**Score:** `%d - %d`\n📈 `%s`: `%d ➡ %d` (`%+d` pts)\n📉 `%s`: `%d ➡ %d` (`%+d` pts)",
				m.Score1, m.Score2,
				m.Player1Name, m.Points1Before, m.Points1After, m.Points1After-m.Points1Before,
				m.Player2Name, m.Points2Before, m.Points2After, m.Points2After-m.Points2Before),
		})
	}
	return embed
}

func rankEmbed(mention string, rank *service.PlayerRank) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🏆 Player Rank",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Player", Value: fmt.Sprintf("%s (%s)", mention, rank.Name)},
			{Name: "📊 Points", Value: fmt.Sprintf("`%d`", rank.Points), Inline: true},
			{Name: "🏅 Rank", Value: fmt.Sprintf("**%s**", rank.Tier), Inline: true},
		},
	}
}

func leaderboardEmbed(board *service.Leaderboard) *discordgo.MessageEmbed {
	medals := []string{"🥇", "🥈", "🥉"}

	embed := &discordgo.MessageEmbed{
		Title: "🏆 Leaderboard",
		Color: colorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("🔥 %d matches played — keep climbing!", board.TotalMatches),
		},
	}

	for _, e := range board.Entries {
		icon := fmt.Sprintf("**#%d**", e.Position)
		if e.Position <= len(medals) {
			icon = medals[e.Position-1]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s %s", icon, e.Name),
			Value: fmt.Sprintf("**Points:** %d | **Rank:** %s", e.Points, e.Tier),
		})
	}
	return embed
}

func manualEmbed(prefix string) *discordgo.MessageEmbed {
	cmd := func(s string) string { return "`" + prefix + s + "`" }
	return &discordgo.MessageEmbed{
		Title: "📜 Command Manual",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "⚖️ Ranking & Points System", Value: cmd("rules")},
			{Name: "🎮 Register an Account", Value: cmd("register <name>")},
			{Name: "✏ Edit Registered Name", Value: cmd("ename <new_name>")},
			{Name: "🎮 Register a Match", Value: cmd("match <player1> <player2> <score1> <score2>")},
			{Name: "✏ Edit a Match", Value: cmd("ematch <match_number> <player1> <player2> <score1> <score2>")},
			{Name: "📝 Match History", Value: cmd("history")},
			{Name: "🏆 View Player Rank", Value: cmd("rank [@player]")},
			{Name: "📊 View Leaderboard", Value: cmd("leaderboard")},
		},
	}
}

func rulesEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📜 Ranking & Points System",
		Color: colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🏆 Ranks & Points Required",
				Value: "🔹 **Bronze**: `0 - 39 points`\n" +
					"🔸 **Silver**: `40 - 69 points`\n" +
					"🟡 **Gold**: `70 - 99 points`\n" +
					"⚪ **Platinum**: `100+ points`",
			},
			{
				Name: "📊 Point Rewards",
				Value: "✅ Winning gives `+5` (evenly matched), `+6` (mid gap) or `+7` (upset, 30+ point gap)\n" +
					"❌ Losing costs `-3` (or `-4` for a mid gap)\n" +
					"⚔ Winning by exactly 1 point softens both: `-1` for the winner, `+1` for the loser\n" +
					"🤝 **Tie**: both players get `+2 points`\n" +
					"🛡 Points never drop below `0`",
			},
		},
	}
}
