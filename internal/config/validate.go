package config

import (
	"errors"
	"fmt"
)

var validDevices = map[string]struct{}{
	"auto": {},
	"cuda": {},
	"cpu":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateASR(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateASR() error {
	if _, ok := validDevices[c.ASR.Device]; !ok {
		return fmt.Errorf("asr.device must be one of auto, cuda, cpu (got %q)", c.ASR.Device)
	}
	if c.ASR.BatchSizeSeconds > 3600 {
		return errors.New("asr.batch_size_seconds must not exceed 3600")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if !c.Subtitles.Enabled {
		return nil
	}
	if c.Subtitles.MinCueSeconds >= c.Subtitles.MaxCueSeconds {
		return errors.New("subtitles.min_cue_seconds must be less than subtitles.max_cue_seconds")
	}
	if c.Subtitles.MaxCharsPerCue > 200 {
		return errors.New("subtitles.max_chars_per_cue must not exceed 200")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must be greater than workflow.heartbeat_interval")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must not be negative")
	}
	return nil
}
