package store

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// PointSource abstracts over heap-backed and mmap-backed point storage,
// exactly the split the teacher's BlockStore draws between a plain
// in-memory block and an mmap'd one.
type PointSource interface {
	// Len returns the number of point entries.
	Len() int
	// At returns the x,y,z coordinates of entry i.
	At(i int) (x, y, z float64)
}

// SlicePoints is a heap-backed PointSource over an in-memory byte slice,
// for callers that don't need a real on-disk file.
type SlicePoints struct {
	EntrySize int
	Data      []byte
	Offset    int // bytes skipped before the array begins
}

// Len implements PointSource.
func (s SlicePoints) Len() int {
	if s.EntrySize == 0 {
		return 0
	}
	return (len(s.Data) - s.Offset) / s.EntrySize
}

// At implements PointSource.
func (s SlicePoints) At(i int) (x, y, z float64) {
	base := s.Offset + i*s.EntrySize
	return readXYZ(s.Data[base:])
}

func readXYZ(p []byte) (x, y, z float64) {
	x = math.Float64frombits(binary.LittleEndian.Uint64(p[0:8]))
	y = math.Float64frombits(binary.LittleEndian.Uint64(p[8:16]))
	z = math.Float64frombits(binary.LittleEndian.Uint64(p[16:24]))
	return
}

// MmapIndexFile is the on-disk tree index, memory-mapped read-only.
// Grounded directly on the teacher's MmapBlockStore: open, map,
// Bytes()/Close() lifecycle, generalized with the random-access
// madvise hint and an explicit Lock the teacher's block store doesn't
// need (its workload is sequential block scans, not tree descent).
type MmapIndexFile struct {
	f    *os.File
	data mmap.MMap
}

// OpenMmapIndexFile opens and maps path read-only.
func OpenMmapIndexFile(path string) (*MmapIndexFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(EIO, err.Error())
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, newErr(EMMap, err.Error())
	}
	idx := &MmapIndexFile{f: f, data: m}
	if err := idx.Advise(); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// Bytes returns the full mapped index as a read-only byte slice, valid
// until Close.
func (m *MmapIndexFile) Bytes() []byte {
	if m.data == nil {
		return nil
	}
	return m.data
}

// Advise marks the mapping MADV_RANDOM, since tree descent jumps between
// sibling/child offsets rather than scanning sequentially — the direct
// Go port of the original C htm_tree_init's madvise(MADV_RANDOM) call.
func (m *MmapIndexFile) Advise() error {
	if m.data == nil {
		return nil
	}
	if err := unix.Madvise(m.data, unix.MADV_RANDOM); err != nil {
		return newErr(EMMap, err.Error())
	}
	return nil
}

// Lock pins the mapping into resident memory (mlock), per spec's
// lock(datathresh) contract: the index mapping is always locked.
func (m *MmapIndexFile) Lock() error {
	if m.data == nil {
		return nil
	}
	if err := m.data.Lock(); err != nil {
		return newErr(EMMap, err.Error())
	}
	return nil
}

// Close unmaps and closes the underlying file. Idempotent.
func (m *MmapIndexFile) Close() error {
	if m.data != nil {
		if err := m.data.Unmap(); err != nil {
			return newErr(EMMap, err.Error())
		}
		m.data = nil
	}
	if m.f != nil {
		err := m.f.Close()
		m.f = nil
		if err != nil {
			return newErr(EIO, err.Error())
		}
	}
	return nil
}

// MmapPointFile is the bulk point array, memory-mapped read-only and
// exposed as a PointSource.
type MmapPointFile struct {
	f         *os.File
	data      mmap.MMap
	EntrySize int
	Offset    int
}

// OpenMmapPointFile opens and maps path read-only, treating it as
// count = (size-offset)/entrySize fixed-size entries.
func OpenMmapPointFile(path string, entrySize, offset int) (*MmapPointFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(EIO, err.Error())
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, newErr(EMMap, err.Error())
	}
	pf := &MmapPointFile{f: f, data: m, EntrySize: entrySize, Offset: offset}
	if err := pf.Advise(); err != nil {
		pf.Close()
		return nil, err
	}
	return pf, nil
}

// Len implements PointSource.
func (p *MmapPointFile) Len() int {
	if p.data == nil || p.EntrySize == 0 {
		return 0
	}
	return (len(p.data) - p.Offset) / p.EntrySize
}

// At implements PointSource.
func (p *MmapPointFile) At(i int) (x, y, z float64) {
	base := p.Offset + i*p.EntrySize
	return readXYZ(p.data[base:])
}

// Bytes returns the full mapped point file.
func (p *MmapPointFile) Bytes() []byte {
	if p.data == nil {
		return nil
	}
	return p.data
}

// Advise marks the mapping MADV_RANDOM: tree-guided queries only touch
// the leaf ranges the descent selects, not the file in order.
func (p *MmapPointFile) Advise() error {
	if p.data == nil {
		return nil
	}
	if err := unix.Madvise(p.data, unix.MADV_RANDOM); err != nil {
		return newErr(EMMap, err.Error())
	}
	return nil
}

// Lock pins the mapping into resident memory, subject to the caller's
// datathresh check (Tree.Lock decides whether to call this based on
// file size, per spec's "only if its size <= datathresh" rule).
func (p *MmapPointFile) Lock() error {
	if p.data == nil {
		return nil
	}
	if err := p.data.Lock(); err != nil {
		return newErr(EMMap, err.Error())
	}
	return nil
}

// Close unmaps and closes the underlying file. Idempotent.
func (p *MmapPointFile) Close() error {
	if p.data != nil {
		if err := p.data.Unmap(); err != nil {
			return newErr(EMMap, err.Error())
		}
		p.data = nil
	}
	if p.f != nil {
		err := p.f.Close()
		p.f = nil
		if err != nil {
			return newErr(EIO, err.Error())
		}
	}
	return nil
}
