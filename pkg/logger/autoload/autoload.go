// Package autoload initializes the global logger from LOG_* environment
// variables on import:
//
//	import _ "github.com/salesdesk/quoting-agent/pkg/logger/autoload"
package autoload

import (
	configx "github.com/salesdesk/quoting-agent/pkg/config"
	logx "github.com/salesdesk/quoting-agent/pkg/logger"
)

func init() {
	cfg, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*cfg)
}
