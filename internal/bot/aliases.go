package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func aliasCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         "alias-add",
			Description:  "Thêm câu trả lời nhanh mới",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Tên lệnh",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "response",
					Description: "Nội dung trả lời",
					Required:    true,
				},
			},
		},
		{
			Name:         "alias-remove",
			Description:  "Xóa câu trả lời nhanh",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Tên lệnh cần xóa",
					Required:    true,
				},
			},
		},
		{
			Name:         "alias-update",
			Description:  "Cập nhật câu trả lời nhanh",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Tên lệnh cần cập nhật",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "response",
					Description: "Nội dung trả lời mới",
					Required:    true,
				},
			},
		},
		{
			Name:         "alias-list",
			Description:  "Liệt kê các câu trả lời nhanh đã đăng ký",
			DMPermission: boolPtr(false),
		},
	}
}

func (b *Bot) handleAliasAdd(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, data discordgo.ApplicationCommandInteractionData) {
	var name, response string
	for _, opt := range data.Options {
		if opt.Name == "name" {
			name = opt.StringValue()
		} else if opt.Name == "response" {
			response = opt.StringValue()
		}
	}

	err := b.db.AddAlias(context.Background(), guildID, name, response)
	var content string
	if err != nil {
		content = "Thêm thất bại."
	} else {
		content = fmt.Sprintf("Đã thêm lệnh '%s'.", name)
	}

	respondText(s, i, content)
}

func (b *Bot) handleAliasRemove(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, data discordgo.ApplicationCommandInteractionData) {
	var name string
	for _, opt := range data.Options {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	err := b.db.RemoveAlias(context.Background(), guildID, name)
	var content string
	if err != nil {
		content = "Lệnh đó không tồn tại."
	} else {
		content = fmt.Sprintf("Đã xóa lệnh '%s'.", name)
	}

	respondText(s, i, content)
}

func (b *Bot) handleAliasUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, data discordgo.ApplicationCommandInteractionData) {
	var name, response string
	for _, opt := range data.Options {
		if opt.Name == "name" {
			name = opt.StringValue()
		} else if opt.Name == "response" {
			response = opt.StringValue()
		}
	}

	err := b.db.UpdateAlias(context.Background(), guildID, name, response)
	var content string
	if err != nil {
		content = "Lệnh đó không tồn tại."
	} else {
		content = fmt.Sprintf("Đã cập nhật lệnh '%s'.", name)
	}

	respondText(s, i, content)
}

func (b *Bot) handleAliasList(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	aliases, err := b.db.ListAliases(context.Background(), guildID, "")
	if err != nil || len(aliases) == 0 {
		respondText(s, i, "Chưa có lệnh nào được đăng ký.")
		return
	}

	var entries []string
	for _, a := range aliases {
		entries = append(entries, fmt.Sprintf("!%s: %s", a.Name, a.Response))
	}

	// Split into 2000 character chunks (Discord message limit)
	var buffer strings.Builder
	for _, entry := range entries {
		if buffer.Len()+len(entry)+1 > 2000 {
			s.ChannelMessageSend(i.ChannelID, buffer.String())
			buffer.Reset()
		}
		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(entry)
	}

	if buffer.Len() > 0 {
		s.ChannelMessageSend(i.ChannelID, buffer.String())
	}

	respondText(s, i, "Đã gửi danh sách lệnh.")
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func parseGuildID(guildID string) int64 {
	id, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		log.Printf("Failed to parse guild ID '%s': %v", guildID, err)
		return 0
	}
	return id
}

func boolPtr(b bool) *bool {
	return &b
}
