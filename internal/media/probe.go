// Package media 读取上传媒体的元信息
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// FFProbe 调用 ffprobe 读取视频时长
type FFProbe struct {
	// Bin ffprobe 可执行文件，空则从 PATH 查找
	Bin string
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration 把内容写入临时文件后探测时长（秒），mp4 的 moov 可能在文件尾，不能直接走管道
func (p FFProbe) Duration(ctx context.Context, r io.Reader) (float64, error) {
	tmp, err := os.CreateTemp("", "tourtube-probe-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return 0, fmt.Errorf("buffer upload: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, err
	}

	bin := p.Bin
	if bin == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		tmp.Name(),
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseDuration(output)
}

func parseDuration(output []byte) (float64, error) {
	var data probeOutput
	if err := json.Unmarshal(output, &data); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}

	if data.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil {
			return dur, nil
		}
	}
	for _, s := range data.Streams {
		if s.CodecType != "video" || s.Duration == "" {
			continue
		}
		if dur, err := strconv.ParseFloat(s.Duration, 64); err == nil {
			return dur, nil
		}
	}
	return 0, fmt.Errorf("ffprobe output has no duration")
}
