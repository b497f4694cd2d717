package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"abroad-compass/backend/config"
	"abroad-compass/backend/pkg/database"
	applogger "abroad-compass/backend/pkg/logger"
)

var configPath string

// rootCmd 默认执行 serve
var rootCmd = &cobra.Command{
	Use:           "compass",
	Short:         "Abroad Compass 留学申请规划后端",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	// .env 仅用于本地开发，缺失时忽略
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置、初始化日志并连接数据库
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, applogger.GormLevel(cfg.Log.Level), logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return cfg, logger, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
