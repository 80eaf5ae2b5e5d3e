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

package simulation

import (
	"fmt"
	"os"

	"github.com/kevinalini/LoRaEnergySim/logger"
)

// statsLog writes a CSV log of how many nodes are in each state, and how many packets are on
// the air, each time these numbers change.
type statsLog struct {
	logFile        *os.File
	logFileName    string
	isFileEnabled  bool
	timestampUs    uint64 // simulation current timestamp
	logTimestampUs uint64 // last log entry timestamp
	stats          networkStats
	oldStats       networkStats
	nodes          []*Node
	air            *AirInterface
}

type networkStats struct {
	numNodes    int
	numSleep    int
	numPrepare  int
	numWaitDC   int
	numTransmit int
	numWaitAck  int
	numInAir    int
}

func newStatsLog(outputDir string, simulationId int, nodes []*Node, air *AirInterface) *statsLog {
	return &statsLog{
		logFileName:   getStatsLogFileName(outputDir, simulationId),
		isFileEnabled: true,
		nodes:         nodes,
		air:           air,
		oldStats:      networkStats{numNodes: -1},
	}
}

func (sl *statsLog) init() {
	sl.createLogFile()
}

// OnAdvanceTime logs the state reached at the end of the previous timestamp, if it changed.
func (sl *statsLog) OnAdvanceTime(ts uint64) {
	if sl.checkLogEntryChange() {
		sl.writeLogEntry(sl.timestampUs, sl.stats)
		sl.logTimestampUs = sl.timestampUs
		sl.oldStats = sl.stats
	}
	sl.timestampUs = ts
}

func (sl *statsLog) stop() {
	// add a final entry with final status
	sl.writeLogEntry(sl.timestampUs, sl.calcStats())
	sl.close()
	logger.Debugf("stats log %s closed", sl.logFileName)
}

func (sl *statsLog) createLogFile() {
	logger.AssertNil(sl.logFile)

	var err error
	_ = os.Remove(sl.logFileName)

	sl.logFile, err = os.OpenFile(sl.logFileName, os.O_CREATE|os.O_WRONLY, 0664)
	if err != nil {
		logger.Errorf("creating new stats log file %s failed: %+v", sl.logFileName, err)
		sl.isFileEnabled = false
		return
	}
	sl.writeLogFileHeader()
	logger.Debugf("Stats log file '%s' created.", sl.logFileName)
}

func (sl *statsLog) writeLogFileHeader() {
	// RFC 4180 CSV file: no leading or trailing spaces in header field names
	header := "timeSec,nNodes,nSleep,nPrepare,nWaitDC,nTransmit,nWaitAck,nInAir"
	_ = sl.writeToLogFile(header)
}

func (sl *statsLog) calcStats() networkStats {
	s := networkStats{
		numNodes: len(sl.nodes),
		numInAir: sl.air.InAir(),
	}
	for _, node := range sl.nodes {
		switch node.State() {
		case NodeSleep:
			s.numSleep++
		case NodePrepare:
			s.numPrepare++
		case NodeWaitDutyCycle:
			s.numWaitDC++
		case NodeTransmit:
			s.numTransmit++
		case NodeWaitAck:
			s.numWaitAck++
		}
	}
	return s
}

func (sl *statsLog) checkLogEntryChange() bool {
	sl.stats = sl.calcStats()
	return sl.stats != sl.oldStats
}

func (sl *statsLog) writeLogEntry(ts uint64, stats networkStats) {
	timeSec := float64(ts) / 1e6
	entry := fmt.Sprintf("%14.6f,%5d,%5d,%5d,%5d,%5d,%5d,%5d", timeSec, stats.numNodes, stats.numSleep,
		stats.numPrepare, stats.numWaitDC, stats.numTransmit, stats.numWaitAck, stats.numInAir)
	_ = sl.writeToLogFile(entry)
}

func (sl *statsLog) writeToLogFile(line string) error {
	if !sl.isFileEnabled {
		return nil
	}
	_, err := sl.logFile.WriteString(line + "\n")
	if err != nil {
		sl.close()
		sl.isFileEnabled = false
		logger.Errorf("couldn't write to stats log file (%s), closing it", sl.logFileName)
	}
	return err
}

func (sl *statsLog) close() {
	if sl.logFile != nil {
		_ = sl.logFile.Close()
		sl.logFile = nil
		sl.isFileEnabled = false
	}
}

func getStatsLogFileName(outputDir string, simId int) string {
	return fmt.Sprintf("%s/%d_stats.csv", outputDir, simId)
}
