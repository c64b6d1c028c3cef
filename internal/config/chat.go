package config

import (
	"strings"
	"sync"
)

const (
	ChatProviderOpenAI = "openai"
	ChatProviderGemini = "gemini"
)

type ChatConfig struct {
	Provider     string
	MaxUserTurns int
}

var (
	chatConfig *ChatConfig
	chatOnce   sync.Once
)

func LoadChatConfig() *ChatConfig {
	chatOnce.Do(func() {
		chatConfig = &ChatConfig{
			Provider:     strings.ToLower(envString("CHAT_PROVIDER", ChatProviderOpenAI)),
			MaxUserTurns: envInt("CHAT_MAX_USER_TURNS", 10),
		}
	})
	return chatConfig
}
