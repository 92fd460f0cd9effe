// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package archive

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// snapshotRecord is the on-disk representation of locally captured page
// content. Fields are serialized in declaration order.
type snapshotRecord struct {
	URL        string
	MIME       string
	Body       string
	CapturedAt int64 // unix microseconds, UTC
}

func snapshotRecordSize(r *snapshotRecord) int {
	return ord.String.Size(r.URL) +
		ord.String.Size(r.MIME) +
		ord.String.Size(r.Body) +
		varint.Int64.Size(r.CapturedAt)
}

func marshalSnapshotRecord(r *snapshotRecord) []byte {
	buf := make([]byte, snapshotRecordSize(r))
	n := ord.String.Marshal(r.URL, buf)
	n += ord.String.Marshal(r.MIME, buf[n:])
	n += ord.String.Marshal(r.Body, buf[n:])
	varint.Int64.Marshal(r.CapturedAt, buf[n:])
	return buf
}

func unmarshalSnapshotRecord(data []byte) (*snapshotRecord, error) {
	var (
		r   snapshotRecord
		n   int
		err error
	)
	r.URL, n, err = ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]
	r.MIME, n, err = ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]
	r.Body, n, err = ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]
	r.CapturedAt, _, err = varint.Int64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
