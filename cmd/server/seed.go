package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/redis"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "从 YAML 文件导入院校目录（按名称插入或更新）",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "config/catalog.yaml", "院校目录文件")
}

// catalogFile 院校目录文件结构
type catalogFile struct {
	Universities []model.University `yaml:"universities"`
}

func runSeed(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("读取目录文件失败: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("解析目录文件失败: %w", err)
	}
	if len(file.Universities) == 0 {
		return fmt.Errorf("目录文件 %s 中没有院校", seedFile)
	}
	for i, u := range file.Universities {
		if u.Name == "" || u.Country == "" || u.Difficulty == "" {
			return fmt.Errorf("第 %d 条院校缺少 name/country/difficulty", i+1)
		}
	}

	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer closeDB(db)

	// Redis 可用时导入后顺带清除目录缓存
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 不可用，目录缓存将在过期后刷新", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	repo := repository.NewRepository(db)
	catalog := service.NewCatalogService(&cfg.Redis, repo, rdb, logger)

	n, err := catalog.Import(cmd.Context(), file.Universities)
	if err != nil {
		return err
	}
	logger.Info("院校目录已导入", zap.Int("count", n), zap.String("file", seedFile))
	return nil
}
