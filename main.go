// martianblue 网站后端与页面背景动画工具
//
//	martianblue serve             启动 JSON API
//	martianblue backdrop list     列出背景预设
//	martianblue backdrop term     在终端里播放背景动画
//	martianblue backdrop stats    无界面运行若干帧并输出实体统计
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gonewx/martianblue/pkg/embedded"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "martianblue",
	Short: "Martian Blue site backend and backdrop tools",
	Long: `Martian Blue serves the contact and blog API for the marketing site and
ships the animated page backdrops (particle network, starfield, flow lines).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = newLogger(level, "console")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newLogger 按级别和格式构建 zap 日志
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd, backdropCmd)
}

func main() {
	embedded.Init(dataFS)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
