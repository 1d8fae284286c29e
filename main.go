package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/config"
	"github.com/asaithebest/Nova/controller"
	"github.com/asaithebest/Nova/dao"
	"github.com/asaithebest/Nova/logic"
	"github.com/asaithebest/Nova/middleware"
	"github.com/asaithebest/Nova/models"
	"github.com/asaithebest/Nova/pkg"
)

func main() {
	// Initialize config. A .env file may supply secrets.
	if len(os.Args) < 2 {
		log.Fatal("Usage: nova <config.yaml>")
	}
	_ = godotenv.Load()
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatalf("Failed to load config from %s: %v", configFile, err)
	}
	cfg := &config.GlobalConfig

	// Initialize database.
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Attachment{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	// Initialize chat client.
	chatClient := pkg.NewChatClient(cfg.Chat.BaseURL, cfg.Chat.APIKey)

	// Initialize DAOs.
	userDAO := dao.NewUserDAO(db)
	convoDAO := dao.NewConversationDAO(db)
	messageDAO := dao.NewMessageDAO(db)
	attachmentDAO := dao.NewAttachmentDAO(db)

	// Initialize logics.
	userLogic := logic.NewUserLogic(userDAO, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	convoLogic := logic.NewConversationLogic(convoDAO)
	messageLogic := logic.NewMessageLogic(convoDAO, messageDAO, chatClient, logic.ChatOptions{
		Model:         cfg.Chat.Model,
		Temperature:   *cfg.Chat.Temperature,
		MaxTokens:     cfg.Chat.MaxTokens,
		HistoryWindow: cfg.Chat.HistoryWindow,
		SystemPrompt:  cfg.Chat.SystemPrompt,
		IdleTimeout:   cfg.IdleTimeout(),
	})

	// Initialize controllers.
	userCtrl := controller.NewUserController(userLogic)
	convoCtrl := controller.NewConversationController(convoLogic)
	messageCtrl := controller.NewMessageController(messageLogic)
	attachmentCtrl := controller.NewAttachmentController(attachmentDAO, cfg.Uploads.Dir, cfg.Uploads.MaxSizeMB)

	// Setup gin router.
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS())

	api := r.Group("/api", middleware.Identify(cfg.Auth.JWTSecret))
	api.POST("/auth/register", userCtrl.Register)
	api.POST("/auth/login", userCtrl.Login)
	api.POST("/chat", messageCtrl.Chat)
	api.POST("/conversations", convoCtrl.CreateConversation)
	api.GET("/conversations", convoCtrl.GetConversations)
	api.PUT("/conversations/:id", convoCtrl.RenameConversation)
	api.DELETE("/conversations/:id", convoCtrl.DeleteConversation)
	api.GET("/conversations/:id/messages", messageCtrl.GetMessages)
	api.POST("/upload", attachmentCtrl.Upload)

	// Run server.
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	default:
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	}
}
