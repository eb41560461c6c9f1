package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/John-Robertt/movielab/internal/app/run"
	"github.com/John-Robertt/movielab/internal/catalog"
	"github.com/John-Robertt/movielab/internal/catalog/htmlcat"
	"github.com/John-Robertt/movielab/internal/catalog/jsoncat"
	"github.com/John-Robertt/movielab/internal/catalog/yamlcat"
	"github.com/John-Robertt/movielab/internal/config"
	"github.com/John-Robertt/movielab/internal/domain"
	"github.com/John-Robertt/movielab/internal/infra/fsx"
	mlog "github.com/John-Robertt/movielab/internal/log"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(os.Stdout)
		return
	}

	switch args[0] {
	case "run":
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
			os.Exit(1)
		}
		if code := runCmd(context.Background(), cwd, args[1:], os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	case "ops":
		for _, op := range domain.AllOps {
			fmt.Fprintln(os.Stdout, op)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

// runCmd 执行 run 子命令并返回进程退出码（0 成功，1 有失败项，2 参数错误）。
func runCmd(ctx context.Context, cwd string, args []string, stdout, stderr io.Writer) int {
	for _, a := range args {
		if isHelp(a) {
			printRunUsage(stdout)
			return 0
		}
	}

	ra, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
		printRunUsage(stderr)
		return 2
	}

	cwdAbs, _ := filepath.Abs(cwd)

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Path:      ra.Path,
		Format:    ra.Format,
		FormatSet: ra.FormatSet,
		Ops:       ra.Ops,
		OpsSet:    ra.OpsSet,
		Report:    ra.Report,
		ReportSet: ra.ReportSet,
	})
	if err != nil {
		emitReport(stdout, stderr, reportForConfigError(cwdAbs, err))
		return 1
	}

	mlog.Configure(mlog.Config{Level: eff.LogLevel, Output: stderr})
	logger := mlog.WithComponent("run")

	reg, err := catalog.NewRegistry(
		jsoncat.Decoder{},
		yamlcat.Decoder{},
		htmlcat.Decoder{},
	)
	if err != nil {
		fmt.Fprintf(stderr, "初始化 catalog registry 失败：%v\n", err)
		return 1
	}

	rr := run.ExecuteWithObserver(ctx, eff, reg, run.LogObserver{L: logger})

	// report：写入 <root>/cache/report.json；未开启时不落盘。
	if eff.Report {
		if err := writeReportFile(eff.Root, rr); err != nil {
			fmt.Fprintf(stderr, "写入 report.json 失败：%v\n", err)
			emitReport(stdout, stderr, rr)
			return 1
		}
		logger.Info().Str("report", filepath.Join(eff.Root, "cache", "report.json")).Msg("report written")
	}

	emitReport(stdout, stderr, rr)
	if rr.Summary.Failed == 0 {
		return 0
	}
	return 1
}

type runArgs struct {
	Path string

	Format    string
	FormatSet bool

	Ops    []string
	OpsSet bool

	Report    bool
	ReportSet bool
}

func parseRunArgs(args []string) (runArgs, error) {
	ra := runArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--format":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--format 需要一个值")
			}
			i++
			ra.Format = args[i]
			ra.FormatSet = true
		case strings.HasPrefix(a, "--format="):
			ra.Format = strings.TrimPrefix(a, "--format=")
			ra.FormatSet = true
		case a == "--op":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--op 需要一个值")
			}
			i++
			ra.Ops = append(ra.Ops, splitOps(args[i])...)
			ra.OpsSet = true
		case strings.HasPrefix(a, "--op="):
			ra.Ops = append(ra.Ops, splitOps(strings.TrimPrefix(a, "--op="))...)
			ra.OpsSet = true
		case a == "--report":
			ra.Report = true
			ra.ReportSet = true
		case strings.HasPrefix(a, "--report="):
			v := strings.TrimPrefix(a, "--report=")
			switch v {
			case "true":
				ra.Report = true
			case "false":
				ra.Report = false
			default:
				return runArgs{}, fmt.Errorf("--report 只能是 true 或 false，实际是 %q", v)
			}
			ra.ReportSet = true
		case strings.HasPrefix(a, "-"):
			return runArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if ra.Path != "" {
				return runArgs{}, fmt.Errorf("重复的 path：%q 与 %q", ra.Path, a)
			}
			ra.Path = a
		}
	}

	if ra.FormatSet && strings.TrimSpace(ra.Format) == "" {
		return runArgs{}, fmt.Errorf("--format 不能为空")
	}
	if ra.OpsSet {
		if len(ra.Ops) == 0 {
			return runArgs{}, fmt.Errorf("--op 不能为空")
		}
		for _, op := range ra.Ops {
			if !domain.IsOp(op) {
				return runArgs{}, fmt.Errorf("--op 只能是 %s，实际是 %q", strings.Join(domain.AllOps, "|"), op)
			}
		}
	}

	return ra, nil
}

// splitOps 支持 --op a,b 的写法。
func splitOps(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  movielab run [path] [--op name]... [--format json|yaml|html] [--report[=true|false]]
  movielab ops

命令：
  run    加载 catalog 并执行分析操作
  ops    列出全部分析操作

使用 "movielab run --help" 查看详细说明。
`)
}

func printRunUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  movielab run [path] [--op name]... [--format json|yaml|html] [--report[=true|false]]

参数：
  path        catalog 文件或目录（未指定则读 ./movielab.json 的 path）
  --op        要执行的操作，可重复或用逗号分隔（默认全部；见 "movielab ops"）
  --format    catalog 格式：json|yaml|html（默认按扩展名推断）
  --report    写入 <root>/cache/report.json；支持 --report=false 覆盖配置中的 report=true
  -h, --help  显示帮助
`)
}

func emitReport(stdout, stderr io.Writer, rr domain.Report) {
	summary := fmt.Sprintf("完成：sources=%d movies=%d ops=%d failed=%d",
		rr.Summary.Sources, rr.Summary.Movies, rr.Summary.Ops, rr.Summary.Failed,
	)

	if isTTY(stdout) {
		fmt.Fprintln(stdout, summary)
		for _, r := range rr.Results {
			if r.Status == domain.StatusFailed {
				continue
			}
			b, err := json.Marshal(r.Value)
			if err != nil {
				b = []byte(fmt.Sprintf("%v", r.Value))
			}
			fmt.Fprintf(stdout, "%s: %s\n", r.Op, b)
		}
		for _, s := range rr.Sources {
			if s.Status != domain.StatusFailed {
				continue
			}
			key := s.File
			if key == "" {
				key = "<run>"
			}
			fmt.Fprintf(stderr, "%s %s: %s\n", key, s.ErrorCode, s.ErrorMsg)
		}
		for _, r := range rr.Results {
			if r.Status == domain.StatusFailed {
				fmt.Fprintf(stderr, "%s %s: %s\n", r.Op, r.ErrorCode, r.ErrorMsg)
			}
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 Report JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(stdout)
	_ = enc.Encode(rr)
	fmt.Fprintln(stderr, summary)
}

func reportForConfigError(cwdAbs string, err error) domain.Report {
	now := time.Now().UTC()
	rr := domain.Report{
		Path:       cwdAbs,
		StartedAt:  now,
		FinishedAt: now,
		Sources: []domain.SourceResult{{
			File:      "",
			Status:    domain.StatusFailed,
			ErrorCode: config.Code(err),
			ErrorMsg:  err.Error(),
		}},
	}
	rr.Finalize()
	return rr
}

func writeReportFile(root string, rr domain.Report) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomic(filepath.Join(root, "cache"), "report.json", b)
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
