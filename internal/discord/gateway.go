package discord

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"fightback-bot/internal/config"
	"fightback-bot/internal/domain"
	"fightback-bot/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gateway is the chat collaborator: it parses prefix commands, calls the
// ladder service, and renders the results as embeds. No ranking logic lives
// here.
type Gateway struct {
	session *discordgo.Session
	ladder  *service.LadderService
	prefix  string
	logger  zerolog.Logger
}

func NewGateway(cfg *config.Config, ladder *service.LadderService, logger zerolog.Logger) (*Gateway, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	g := &Gateway{
		session: session,
		ladder:  ladder,
		prefix:  cfg.CommandPrefix,
		logger:  logger,
	}
	session.AddHandler(g.onMessage)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info().Str("user", s.State.User.Username).Msg("logged in")
	})

	return g, nil
}

func (g *Gateway) Open() error {
	return g.session.Open()
}

func (g *Gateway) Close() error {
	return g.session.Close()
}

func (g *Gateway) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, g.prefix) {
		return
	}

	args := strings.Fields(strings.TrimPrefix(m.Content, g.prefix))
	if len(args) == 0 {
		return
	}
	command, args := args[0], args[1:]

	logger := g.logger.With().
		Str("command_id", uuid.New().String()).
		Str("command", command).
		Str("user_id", m.Author.ID).
		Logger()
	logger.Info().Strs("args", args).Msg("command received")

	ctx := logger.WithContext(context.Background())

	switch command {
	case "register":
		g.handleRegister(ctx, m, args)
	case "ename":
		g.handleRename(ctx, m, args)
	case "match":
		g.handleMatch(ctx, m, args)
	case "ematch":
		g.handleEditMatch(ctx, m, args)
	case "history":
		g.handleHistory(ctx, m)
	case "rank":
		g.handleRank(ctx, m)
	case "leaderboard":
		g.handleLeaderboard(ctx, m)
	case "manual":
		g.sendEmbed(m.ChannelID, manualEmbed(g.prefix))
	case "rules":
		g.sendEmbed(m.ChannelID, rulesEmbed())
	default:
		logger.Debug().Msg("unknown command")
	}
}

func (g *Gateway) handleRegister(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if len(args) != 1 {
		g.sendText(m.ChannelID, "Usage: `"+g.prefix+"register <name>`")
		return
	}

	player, err := g.ladder.Register(ctx, m.Author.ID, args[0], m.Author.Username)
	if err != nil {
		g.sendError(ctx, m.ChannelID, err)
		return
	}
	g.sendText(m.ChannelID, "✅ "+m.Author.Mention()+" registered as **"+player.Name+"**!")
}

func (g *Gateway) handleRename(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if len(args) != 1 {
		g.sendText(m.ChannelID, "Usage: `"+g.prefix+"ename <new_name>`")
		return
	}

	player, err := g.ladder.Rename(ctx, m.Author.ID, args[0])
	if err != nil {
		g.sendError(ctx, m.ChannelID, err)
		return
	}
	g.sendText(m.ChannelID, "✅ "+m.Author.Mention()+", your name is now **"+player.Name+"**!")
}

func (g *Gateway) handleMatch(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if len(args) != 4 {
		g.sendText(m.ChannelID, "Usage: `"+g.prefix+"match <player1> <player2> <score1> <score2>`")
		return
	}

	score1, err1 := strconv.Atoi(args[2])
	score2, err2 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil {
		g.sendError(ctx, m.ChannelID, domain.ErrInvalidScore)
		return
	}

	report, err := g.ladder.RecordMatch(ctx, args[0], args[1], score1, score2)
	if err != nil {
		g.sendError(ctx, m.ChannelID, err)
		return
	}
	g.sendEmbed(m.ChannelID, matchReportEmbed(report))
}

func (g *Gateway) handleEditMatch(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if len(args) != 5 {
		g.sendText(m.ChannelID, "Usage: `"+g.prefix+"ematch <match_number> <player1> <player2> <score1> <score2>`")
		return
	}

	number, err := strconv.Atoi(args[0])
	if err != nil {
		g.sendError(ctx, m.ChannelID, domain.ErrInvalidMatchNumber)
		return
	}
	score1, err1 := strconv.Atoi(args[3])
	score2, err2 := strconv.Atoi(args[4])
	if err1 != nil || err2 != nil {
		g.sendError(ctx, m.ChannelID, domain.ErrInvalidScore)
		return
	}

	report, err := g.ladder.EditMatch(ctx, number, args[1], args[2], score1, score2)
	if err != nil {
		g.sendError(ctx, m.ChannelID, err)
		return
	}
	g.sendEmbed(m.ChannelID, matchReportEmbed(report))
}

func (g *Gateway) handleHistory(ctx context.Context, m *discordgo.MessageCreate) {
	history, err := g.ladder.History(ctx, 0)
	if err != nil {
		g.sendError(ctx, m.ChannelID, err)
		return
	}
	if len(history) == 0 {
		g.sendText(m.ChannelID, "❌ No matches recorded yet.")
		return
	}
	g.sendEmbed(m.ChannelID, historyEmbed(history))
}

func (g *Gateway) handleRank(ctx context.Context, m *discordgo.MessageCreate) {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}

	rank, err := g.ladder.Rank(ctx, target.ID)
	if err != nil {
		g.sendError(ctx, m.ChannelID, err)
		return
	}
	g.sendEmbed(m.ChannelID, rankEmbed(target.Mention(), rank))
}

func (g *Gateway) handleLeaderboard(ctx context.Context, m *discordgo.MessageCreate) {
	board, err := g.ladder.Leaderboard(ctx, 0)
	if err != nil {
		g.sendError(ctx, m.ChannelID, err)
		return
	}
	if len(board.Entries) == 0 {
		g.sendText(m.ChannelID, "❌ No players have been ranked yet.")
		return
	}
	g.sendEmbed(m.ChannelID, leaderboardEmbed(board))
}

// sendError maps engine errors to user-facing messages. Unexpected errors
// are logged and reported generically.
func (g *Gateway) sendError(ctx context.Context, channelID string, err error) {
	var msg string
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		msg = "❌ You are already registered."
	case errors.Is(err, domain.ErrNotRegistered):
		msg = "❌ You are not registered. Use `" + g.prefix + "register <name>` first."
	case errors.Is(err, domain.ErrNameTaken):
		msg = "❌ That name is already taken."
	case errors.Is(err, domain.ErrPlayerNotRegistered):
		msg = "❌ One or both players are not registered."
	case errors.Is(err, domain.ErrMatchNotFound):
		msg = "❌ Match not found."
	case errors.Is(err, domain.ErrInvalidMatchNumber):
		msg = "❌ Invalid match number. Please enter a valid number."
	case errors.Is(err, domain.ErrInvalidScore):
		msg = "❌ Scores must be non-negative numbers."
	case errors.Is(err, domain.ErrSamePlayer):
		msg = "❌ A match needs two different players."
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("command failed")
		msg = "❌ Something went wrong, please try again."
	}
	g.sendText(channelID, msg)
}

func (g *Gateway) sendText(channelID, content string) {
	if _, err := g.session.ChannelMessageSend(channelID, content); err != nil {
		g.logger.Warn().Err(err).Str("channel_id", channelID).Msg("failed to send message")
	}
}

func (g *Gateway) sendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := g.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		g.logger.Warn().Err(err).Str("channel_id", channelID).Msg("failed to send embed")
	}
}
