// Copyright (c) 2023-2024, The OTNS Authors.
// Copyright (c) 2024, The LoRaEnergySim Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	. "github.com/kevinalini/LoRaEnergySim/types"
)

// NodeLogger is a node-specific log object. Entries are buffered and flushed with the virtual
// time of the simulation, so a traced node shows when (in simulated time) things happened.
type NodeLogger struct {
	Id           NodeId
	fileLevel    Level
	displayLevel Level

	logFile       *os.File
	logFileName   string
	isFileEnabled bool
	entries       chan logEntry
	timestampUs   uint64
}

var (
	nodeLogs = make(map[NodeId]*NodeLogger, 10)
	mutex    = sync.Mutex{}
)

// GetNodeLogger gets the NodeLogger instance for the given (simulation ID, node) and configures it. If
// outputDir is non-empty, entries up to fileLevel are also written to a per-node log file in that directory.
func GetNodeLogger(outputDir string, simulationId int, nodeid NodeId) *NodeLogger {
	mutex.Lock()
	defer mutex.Unlock()

	nl, ok := nodeLogs[nodeid]
	if !ok {
		nl = &NodeLogger{
			Id:           nodeid,
			fileLevel:    ErrorLevel,
			displayLevel: ErrorLevel,
			entries:      make(chan logEntry, 1000),
		}
		nodeLogs[nodeid] = nl
	}
	if outputDir != "" && nl.logFile == nil {
		nl.logFileName = getLogFileName(outputDir, simulationId, nodeid)
		nl.isFileEnabled = true
		nl.createLogFile()
	}
	return nl
}

func getLogFileName(outputPath string, simId int, nodeId NodeId) string {
	return fmt.Sprintf("%s/%d_%d.log", outputPath, simId, nodeId)
}

func (nl *NodeLogger) createLogFile() {
	var err error
	nl.logFile, err = os.OpenFile(nl.logFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0664)
	if err != nil {
		nl.Errorf("creating node log file %s failed: %+v", nl.logFileName, err)
		nl.isFileEnabled = false
		return
	}

	header := fmt.Sprintf("#\n# LoRa node log for %s Created %s\n", GetNodeName(nl.Id),
		time.Now().Format(time.RFC3339)) +
		"# SimTimeUs  Message"
	_ = nl.writeToLogFile(header)
}

// NodeLogf logs a formatted log message for the specific nodeid; correct NodeLogger object will be auto-found.
func NodeLogf(nodeid NodeId, level Level, format string, args ...interface{}) {
	mutex.Lock()
	nl := nodeLogs[nodeid]
	mutex.Unlock()
	if nl == nil || (level > nl.fileLevel && level > nl.displayLevel) {
		return
	}
	entry := logEntry{
		NodeId: nodeid,
		Level:  level,
		Msg:    getMessage(format, args),
	}
	select {
	case nl.entries <- entry:
		break
	default:
		nl.DisplayPendingLogEntries(nl.timestampUs)
		nl.entries <- entry
	}
}

func (nl *NodeLogger) SetFileLevel(level Level) {
	nl.fileLevel = level
}

func (nl *NodeLogger) SetDisplayLevel(level Level) {
	nl.displayLevel = level
}

// IsLevelVisible returns true if entries of the given level end up anywhere.
func (nl *NodeLogger) IsLevelVisible(level Level) bool {
	return level <= nl.displayLevel || (nl.isFileEnabled && level <= nl.fileLevel)
}

func (nl *NodeLogger) Tracef(format string, args ...interface{}) {
	NodeLogf(nl.Id, TraceLevel, format, args...)
}

func (nl *NodeLogger) Debugf(format string, args ...interface{}) {
	NodeLogf(nl.Id, DebugLevel, format, args...)
}

func (nl *NodeLogger) Infof(format string, args ...interface{}) {
	NodeLogf(nl.Id, InfoLevel, format, args...)
}

func (nl *NodeLogger) Warnf(format string, args ...interface{}) {
	NodeLogf(nl.Id, WarnLevel, format, args...)
}

func (nl *NodeLogger) Errorf(format string, args ...interface{}) {
	NodeLogf(nl.Id, ErrorLevel, format, args...)
}

func (nl *NodeLogger) writeToLogFile(line string) error {
	_, err := nl.logFile.WriteString(line + "\n")
	if err != nil {
		_ = nl.logFile.Close()
		nl.logFile = nil
		nl.isFileEnabled = false
		Errorf("couldn't write to node log file (%s), closing it", nl.logFileName)
	}
	return err
}

// DisplayPendingLogEntries displays all pending log entries for the node, using given simulation time ts.
// This includes writing any pending entries to the node log file.
func (nl *NodeLogger) DisplayPendingLogEntries(ts uint64) {
	nl.timestampUs = ts
	tsStr := fmt.Sprintf("%11d ", ts)
	nodeStr := GetNodeName(nl.Id)
	for {
		select {
		case entry := <-nl.entries:
			isSaveEntry := nl.fileLevel >= entry.Level
			isDisplayEntry := nl.displayLevel >= entry.Level
			logStr := tsStr + entry.Msg
			if (isDisplayEntry || isSaveEntry) && nl.isFileEnabled {
				_ = nl.writeToLogFile(logStr)
			}
			if isDisplayEntry {
				logAlways(entry.Level, nodeStr+logStr)
			}
		default:
			return
		}
	}
}

// IsFileEnabled returns true if logging to file is currently enabled, false if not.
func (nl *NodeLogger) IsFileEnabled() bool {
	return nl.isFileEnabled
}

// Close closes the node log file and also saves/displays any pending entries.
func (nl *NodeLogger) Close() {
	nl.DisplayPendingLogEntries(nl.timestampUs)
	if nl.logFile != nil {
		_ = nl.logFile.Close()
		nl.logFile = nil
	}
	nl.isFileEnabled = false
}

// CloseNodeLoggers flushes and closes all node loggers and forgets them.
func CloseNodeLoggers() {
	mutex.Lock()
	defer mutex.Unlock()
	for id, nl := range nodeLogs {
		nl.Close()
		delete(nodeLogs, id)
	}
}
