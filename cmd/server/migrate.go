package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/pkg/database"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移（--rollback N 回滚 N 步，仅 postgres）",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&rollbackSteps, "rollback", 0, "回滚步数")
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer closeDB(db)

	if rollbackSteps == 0 {
		return database.Migrate(db, cfg.Database.Driver, logger, model.All()...)
	}

	if cfg.Database.Driver != database.DriverPostgres {
		return fmt.Errorf("回滚仅支持 postgres，当前驱动为 %s", cfg.Database.Driver)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return database.RollbackMigrations(sqlDB, rollbackSteps, logger)
}
