// SPDX-License-Identifier: EPL-2.0

package queue

import (
	"fmt"
	"io"
	"strconv"
)

// String summarizes the cursors and fill level.
func (q *Queue) String() string {
	read := q.state.Read.Load()
	write := q.state.Write.Load()
	return fmt.Sprintf("queue{capacity=%d channels=%d read=%d write=%d availableRead=%d availableWrite=%d}",
		q.bufferLength-1, q.channelCount, read, write,
		q.availableRead(read, write), q.availableWrite(read, write))
}

// Dump writes every plane followed by the cursor state to w. It reads the
// planes without synchronization and is only exact while both roles are idle.
func (q *Queue) Dump(w io.Writer) error {
	var line []byte
	for c, plane := range q.channelData {
		line = append(line[:0], "channel "...)
		line = strconv.AppendInt(line, int64(c), 10)
		line = append(line, ':')
		for _, v := range plane {
			line = append(line, ' ')
			line = strconv.AppendFloat(line, float64(v), 'f', 6, 32)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	read := q.state.Read.Load()
	write := q.state.Write.Load()
	_, err := fmt.Fprintf(w, "----------\nread: %d | write: %d\navailableRead: %d | availableWrite: %d\n----------\n",
		read, write, q.availableRead(read, write), q.availableWrite(read, write))
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
