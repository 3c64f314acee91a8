package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lexchat/internal/config"
	"lexchat/internal/db"
	"lexchat/internal/llm"
	"lexchat/internal/repository"
	"lexchat/internal/service"
)

// REPL de prueba contra los servicios reales, sin pasar por HTTP.
// Usa LEXCHAT_CLI_USER como identidad del caller.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	userID := os.Getenv("LEXCHAT_CLI_USER")
	if userID == "" {
		userID = "cli-user"
	}

	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	provider := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, logger)
	historySvc := service.NewBasicHistoryService(messageRepo, cfg.HistoryWindow)
	chatSvc := service.NewChatService(
		logger,
		sessionRepo,
		messageRepo,
		historySvc,
		provider,
		service.NewMemorySessionLocker(),
		service.NewChatCapability(cfg.LLMModel),
	)

	fmt.Println("---- LexChat CLI (escribe 'salir' para terminar) ----")

	var sessionID string
	for {
		fmt.Print("Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "salir") || strings.EqualFold(text, "exit") {
			fmt.Println("Saliendo del chat...")
			return
		}

		fmt.Print("LexChat > ")
		result, err := chatSvc.TurnStream(ctx, userID, sessionID, text,
			func(id string) error {
				sessionID = id
				return nil
			},
			func(fragment string) error {
				fmt.Print(fragment)
				return nil
			},
		)
		if err != nil {
			fmt.Printf("\nerror generando respuesta: %v\n", err)
			continue
		}
		sessionID = result.SessionID
		fmt.Println()
	}
}
