package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeASR(); err != nil {
		return err
	}
	c.normalizeSubtitles()
	c.normalizeWatch()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeASR() error {
	if strings.TrimSpace(c.ASR.RuntimeDir) == "" {
		c.ASR.RuntimeDir = defaultRuntimeDir
	}
	var err error
	if c.ASR.RuntimeDir, err = expandPath(c.ASR.RuntimeDir); err != nil {
		return fmt.Errorf("asr.runtime_dir: %w", err)
	}
	if strings.TrimSpace(c.ASR.Model) == "" {
		c.ASR.Model = defaultModel
	}
	if strings.TrimSpace(c.ASR.VADModel) == "" {
		c.ASR.VADModel = defaultVADModel
	}
	if strings.TrimSpace(c.ASR.PuncModel) == "" {
		c.ASR.PuncModel = defaultPuncModel
	}
	c.ASR.Device = strings.ToLower(strings.TrimSpace(c.ASR.Device))
	if c.ASR.Device == "" {
		c.ASR.Device = defaultDevice
	}
	c.ASR.Language = strings.TrimSpace(c.ASR.Language)
	if c.ASR.BatchSizeSeconds <= 0 {
		c.ASR.BatchSizeSeconds = defaultBatchSeconds
	}
	return nil
}

func (c *Config) normalizeSubtitles() {
	if c.Subtitles.MaxCharsPerCue <= 0 {
		c.Subtitles.MaxCharsPerCue = defaultMaxCueChars
	}
	if c.Subtitles.MinCueSeconds <= 0 {
		c.Subtitles.MinCueSeconds = defaultMinCueSeconds
	}
	if c.Subtitles.MaxCueSeconds <= 0 {
		c.Subtitles.MaxCueSeconds = defaultMaxCueSeconds
	}
}

func (c *Config) normalizeWatch() {
	if strings.TrimSpace(c.Watch.MountRoot) == "" {
		c.Watch.MountRoot = defaultMountRoot
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		c.Workflow.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		c.Workflow.HeartbeatTimeout = defaultHeartbeatTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
