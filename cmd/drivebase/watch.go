package main

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/team708/go-drivebase/internal/log"
	"github.com/team708/go-drivebase/pkg/drive"
)

// runWatch tails the snapshot stream from a running dashboard.
func runWatch(cmd *cobra.Command, args []string) error {
	log.Info("connecting", "url", watchURL)

	conn, _, err := websocket.DefaultDialer.Dial(watchURL, nil)
	if err != nil {
		return fmt.Errorf("dial dashboard: %w", err)
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		var snap drive.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			log.Warn("bad snapshot frame", "err", err)
			continue
		}
		fmt.Printf("%-12s angle=%7.2f rate=%7.2f out=%+.3f move=%+.2f brake=%v onTarget=%v\n",
			snap.Mode, snap.GyroAngle, snap.GyroRate, snap.PIDOutput, snap.MoveSpeed, snap.Brake, snap.OnTarget)
	}
}
