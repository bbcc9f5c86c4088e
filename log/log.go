// Copyright (C) 2019 gyee authors
//
// This file is part of the gyee library.
//
// The gyee library is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gyee library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with the gyee library.  If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeeco/blockchat/utils/logging"
)

//
// logging API with key / value context
//

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...interface{}) {
	entry(ctx).Trace(msg)
}

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...interface{}) {
	entry(ctx).Debug(msg)
}

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...interface{}) {
	entry(ctx).Info(msg)
}

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...interface{}) {
	entry(ctx).Warn(msg)
}

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...interface{}) {
	entry(ctx).Error(msg)
}

// Crit is a convenient alias for Root().Crit
func Crit(msg string, ctx ...interface{}) {
	entry(ctx).Fatal(msg)
}

//
// logging API with printf format
//

func Debugf(format string, args ...interface{}) {
	logging.Logger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	logging.Logger.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logging.Logger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logging.Logger.Errorf(format, args...)
}

// entry turns "key", value pairs into logrus fields. A trailing key
// without value, or a non-string key, is kept under "ctx".
func entry(ctx []interface{}) *logrus.Entry {
	return logging.Logger.WithFields(fields(ctx))
}

func fields(ctx []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(ctx)/2)
	var extra []interface{}
	for i := 0; i < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok || i+1 >= len(ctx) {
			extra = append(extra, ctx[i:]...)
			break
		}
		f[key] = ctx[i+1]
	}
	if len(extra) > 0 {
		f["ctx"] = fmt.Sprint(extra...)
	}
	return f
}
