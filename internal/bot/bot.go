package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/minhqv/nhombot/internal/command"
	"github.com/minhqv/nhombot/internal/db"
)

// Bot bridges Discord chat to the command processor. Text commands
// starting with "/" run through the processor keyed by channel id (the
// channel is the group); "!" messages expand persisted aliases; alias
// management is exposed as guild slash commands.
type Bot struct {
	session   *discordgo.Session
	db        *db.DB
	processor *command.Processor
}

func New(token string, database *db.DB, processor *command.Processor) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session:   session,
		db:        database,
		processor: processor,
	}

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsAll

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Println("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("%s is connected!", event.User.Username)

	for _, guild := range event.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			log.Printf("Failed to register commands for guild %s: %v", guild.ID, err)
		}
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, event *discordgo.GuildCreate) {
	log.Printf("Guild available/joined: %s (id=%s)", event.Name, event.ID)
	if err := b.registerGuildCommands(event.ID); err != nil {
		log.Printf("Failed to register commands for guild %s: %v", event.ID, err)
	}
}

func (b *Bot) registerGuildCommands(guildID string) error {
	// Delete existing commands and register new ones
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, aliasCommands())
	if err != nil {
		return err
	}

	log.Printf("Registered application commands for guild %s", guildID)
	return nil
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author.Bot {
		return
	}

	content := strings.TrimSpace(m.Content)
	switch {
	case strings.HasPrefix(content, "/"):
		// Group commands: the channel is the group boundary.
		resp := b.processor.Process(content, m.ChannelID)
		if resp.Message != "" {
			s.ChannelMessageSend(m.ChannelID, resp.Message)
		}
	case strings.HasPrefix(content, "!") && len(content) > 1 && m.GuildID != "":
		guildID := parseGuildID(m.GuildID)
		alias, err := b.db.GetAlias(context.Background(), guildID, content[1:])
		if err == nil && alias != nil {
			s.ChannelMessageSend(m.ChannelID, alias.Response)
		}
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	guildID := parseGuildID(i.GuildID)

	switch data.Name {
	case "alias-add":
		b.handleAliasAdd(s, i, guildID, data)
	case "alias-remove":
		b.handleAliasRemove(s, i, guildID, data)
	case "alias-update":
		b.handleAliasUpdate(s, i, guildID, data)
	case "alias-list":
		b.handleAliasList(s, i, guildID)
	}
}
