package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tethys/tethyscore/kernel/common/xcontext"
	"github.com/tethys/tethyscore/kernel/engines/tsce"
	"github.com/tethys/tethyscore/kernel/engines/tsce/chain"
	econf "github.com/tethys/tethyscore/kernel/engines/tsce/config"
)

type RunCmd struct {
	BaseCmd
}

func GetRunCmd() *RunCmd {
	runCmdIns := new(RunCmd)

	// 定义命令行参数变量
	var envCfgPath, blockPath, outPath string

	runCmdIns.cmd = &cobra.Command{
		Use:           "run",
		Short:         "Run every transaction of a block and print the result.",
		Example:       "tsce run --conf /home/rd/tethys/conf/env.yaml --block block.json",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return RunBlock(envCfgPath, blockPath, out)
		},
	}

	// 设置命令行参数并绑定变量
	runCmdIns.cmd.Flags().StringVarP(&envCfgPath, "conf", "c", "", "engine environment config file path")
	runCmdIns.cmd.Flags().StringVarP(&blockPath, "block", "b", "", "block json file path")
	runCmdIns.cmd.Flags().StringVarP(&outPath, "out", "o", "", "result file path, stdout if empty")
	runCmdIns.cmd.MarkFlagRequired("block")

	return runCmdIns
}

// RunBlock 执行区块中的全部交易，结果以json写入out
func RunBlock(envCfgPath, blockPath string, out io.Writer) error {
	env, err := setupEnv(envCfgPath)
	if err != nil {
		return err
	}
	defer env.Close()

	engConf, err := econf.LoadEngineConf(env.envConf.GenConfFilePath(env.envConf.EngineConf))
	if err != nil {
		return err
	}
	engine, err := tsce.NewEngine(env.ledger, engConf, env.log)
	if err != nil {
		return err
	}

	blk, err := chain.LoadBlock(blockPath)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	res, err := engine.ProcBlock(xcontext.NewBaseCtx(sigCtx, env.log), blk)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
