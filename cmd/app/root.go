package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zerde-web/internal/config"
)

const serviceName = "zerde-web"

func newRootCmd() *cobra.Command {
	v := config.New()
	a := &app{v: v}
	var cfgFile string

	root := &cobra.Command{
		Use:   "zerde-web",
		Short: "Zerde 内容聚合站的页面服务",
		Long: `zerde-web 渲染 Zerde 内容聚合站的页面，并提供几个直接查询内容 API 的命令。

配置来源：命令行参数 > 环境变量 (ZERDE_*) > zerde.yaml > 默认值。`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "配置文件路径 (默认查找 ./zerde.yaml)")
	flags.String("api", "", "内容 API 地址，为空时使用 server.public_url")
	flags.String("log-level", "info", "日志级别 (debug, info, warn, error)")
	bindFlag(v, "api.base_url", root, "api")
	bindFlag(v, "log.level", root, "log-level")

	root.AddCommand(
		newServeCmd(a),
		newSearchCmd(a),
		newModulesCmd(a),
		newWeeklyCmd(a),
	)
	return root
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	flag := cmd.PersistentFlags().Lookup(name)
	if flag == nil {
		flag = cmd.Flags().Lookup(name)
	}
	_ = v.BindPFlag(key, flag)
}
