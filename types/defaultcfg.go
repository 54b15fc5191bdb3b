// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// GetDefaultCfgstring 获取默认配置字符串
func GetDefaultCfgstring() string {
	return defaultCfgstring
}

var defaultCfgstring = `
Title="local"

[log]
loglevel = "debug"
logConsoleLevel = "error"
logFile = ""
maxFileSize = 300
maxBackups = 100
maxAge = 28
localTime = true
compress = true
callerFile = false
callerFunction = false

[store]
name = "rpsstore"
driver = "memdb"
dbPath = "datadir"
dbCache = 64

[metrics]
enableMetrics = false

[exec.sub.rps]
revealWindow = 50
joinMode = "choice"
commitScheme = "keccak256"
expiryPolicy = "forfeit"
minWager = 1
maxWager = 10000000000
assets = ["coins.bty"]
requireEntryProof = false
`
