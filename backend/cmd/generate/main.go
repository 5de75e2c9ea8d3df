package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"rotahub/backend/config"
	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/repository"
	"rotahub/backend/internal/service"
	"rotahub/backend/pkg/database"
	applogger "rotahub/backend/pkg/logger"
	"rotahub/backend/pkg/redis"
)

// 排班生成命令行入口，供 cron/运维手工调用。
// 与 HTTP 的 POST /api/v1/rotations/generate 走同一 GenerationService。
func main() {
	var (
		rotationID = flag.String("rotation", "", "仅生成指定规则（可选）")
		employeeID = flag.String("employee", "", "仅生成指定员工（可选）")
		force      = flag.Bool("force", false, "覆盖已存在的排班行")
		dryRun     = flag.Bool("dry-run", false, "试运行：只输出预览，不落库")
	)
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，生成批次未加运行锁", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	repo := repository.NewRepository(db)
	svc := service.NewGenerationService(cfg, repo, rdb, logger)

	req := &dto.GenerateRequest{
		RotationID: *rotationID,
		EmployeeID: *employeeID,
		Force:      *force,
		DryRun:     *dryRun,
	}

	report, err := svc.Generate(context.Background(), req, "cli")
	if err != nil {
		logger.Fatal("排班生成失败", zap.Error(err))
	}

	fmt.Printf("生成完成: 新建 %d, 跳过 %d, 覆盖 %d, 预览 %d (视野截止 %s)\n",
		report.Created, report.Skipped, report.Overwritten, report.Previewed, report.HorizonEnd)
	for _, f := range report.Failures {
		fmt.Printf("  规则 %s 失败: %s\n", f.RotationID, f.Reason)
	}
	if *dryRun {
		for _, row := range report.PreviewRows {
			mark := ""
			if row.WouldOverwrite {
				mark = " [覆盖]"
			}
			fmt.Printf("  %s %s %s%s\n", row.Date, row.EmployeeName, row.ShiftName, mark)
		}
	}

	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}
