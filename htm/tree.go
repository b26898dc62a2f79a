package htm

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/TillFleisch/libtinyhtm/htm/store"
	"github.com/TillFleisch/libtinyhtm/v3"
)

// PointView is the typed view a TreeCallback query passes to the
// caller's PointFunc for each matching point: its coordinates, its
// index in the point file, and its opaque payload bytes (the entry's
// bytes past the first three doubles). Schema carries the field names
// for Payload, loaded once at Open, nil when no sidecar was found.
type PointView struct {
	Vec     v3.Vec
	Index   uint64
	Payload []byte
	Schema  FieldSchema
}

// FieldSchema names the payload fields present in Payload, in order.
type FieldSchema []string

// PointFunc is invoked once per match during TreeCallback, in depth-
// first, child-order-0..3 traversal order. Returning true stops the
// walk early.
type PointFunc func(PointView) (stop bool)

// Tree owns a tree index mapping and a point-file mapping (or point
// source), opened read-only and shared freely across concurrent
// queries. A Tree opened without an index falls back to linear scan for
// every query, per spec's "point-file-only" mode.
type Tree struct {
	index     *store.MmapIndexFile
	points    *store.MmapPointFile
	header    store.Header
	entrySize int
	schema    FieldSchema
}

// Open opens the point file at dataPath and, if indexPath is non-empty,
// the tree index at indexPath, validating that the point file's size is
// consistent with entrySize and the index header's declared count.
// Passing an empty indexPath yields a point-file-only Tree that answers
// every query via linear scan.
func Open(dataPath, indexPath string, entrySize int) (*Tree, error) {
	if entrySize < 24 {
		return nil, newErr(EInv, fmt.Sprintf("Open: entrySize %d is smaller than 3 doubles (24 bytes)", entrySize))
	}
	points, err := store.OpenMmapPointFile(dataPath, entrySize, 0)
	if err != nil {
		log.Error().Str("path", dataPath).Err(err).Msg("open point file failed")
		return nil, wrapStoreErr(err)
	}

	t := &Tree{points: points, entrySize: entrySize}
	t.schema = loadFieldSchema(dataPath)

	if indexPath == "" {
		return t, nil
	}

	index, err := store.OpenMmapIndexFile(indexPath)
	if err != nil {
		log.Error().Str("path", indexPath).Err(err).Msg("open index file failed")
		points.Close()
		return nil, wrapStoreErr(err)
	}
	header, err := store.DecodeHeader(index.Bytes())
	if err != nil {
		index.Close()
		points.Close()
		return nil, wrapStoreErr(err)
	}
	if header.Count*uint64(entrySize) != uint64(len(points.Bytes())) {
		index.Close()
		points.Close()
		err := newErr(ETree, fmt.Sprintf("Open: header count %d times entry size %d does not match point file size %d", header.Count, entrySize, len(points.Bytes())))
		log.Error().Str("path", indexPath).Err(err).Msg("index/point file count mismatch")
		return nil, err
	}

	t.index = index
	t.header = header
	log.Info().Str("data", dataPath).Str("index", indexPath).Uint64("count", header.Count).Msg("tree opened")
	return t, nil
}

// Close releases both mappings. Idempotent.
func (t *Tree) Close() error {
	var firstErr error
	if t.index != nil {
		if err := t.index.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		t.index = nil
	}
	if t.points != nil {
		if err := t.points.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		t.points = nil
	}
	return firstErr
}

// Lock pins the index mapping (always, if present) and the point
// mapping into resident memory only if its byte size is <= dataThresh.
func (t *Tree) Lock(dataThresh int64) error {
	if t.index != nil {
		if err := t.index.Lock(); err != nil {
			log.Warn().Err(err).Msg("index mlock failed")
			return wrapStoreErr(err)
		}
	}
	if t.points != nil && int64(len(t.points.Bytes())) <= dataThresh {
		if err := t.points.Lock(); err != nil {
			log.Warn().Err(err).Msg("point file mlock failed")
			return wrapStoreErr(err)
		}
	}
	return nil
}

// ScanCount is the reference linear scan: test every point in the point
// file against r, with no index involved.
func (t *Tree) ScanCount(r Region) (int64, error) {
	if t == nil {
		return -1, newErr(ENullPtr, "ScanCount: tree is nil")
	}
	if r == nil {
		return -1, newErr(ENullPtr, "ScanCount: region is nil")
	}
	if t.points == nil {
		return -1, newErr(ENullPtr, "ScanCount: tree has no point source")
	}
	var n int64
	ln := t.points.Len()
	for i := 0; i < ln; i++ {
		x, y, z := t.points.At(i)
		if r.ContainsPoint(v3.Vec{X: x, Y: y, Z: z}) {
			n++
		}
	}
	return n, nil
}

// TreeCount returns the number of points matching r, using the on-disk
// index to skip whole subtrees classified Contains or Disjoint. Falls
// back to ScanCount when no index is open.
func (t *Tree) TreeCount(r Region) (int64, error) {
	if t == nil {
		return -1, newErr(ENullPtr, "TreeCount: tree is nil")
	}
	if r == nil {
		return -1, newErr(ENullPtr, "TreeCount: region is nil")
	}
	if t.index == nil {
		return t.ScanCount(r)
	}
	var total int64
	for root := Root(0); root < RootCount; root++ {
		pos := t.header.RootOffset[root]
		if pos == 0 {
			continue
		}
		n, err := t.countNode(RootTriangle(root), pos, r)
		if err != nil {
			return -1, err
		}
		total += n
	}
	return total, nil
}

func (t *Tree) countNode(tri Triangle, pos uint64, r Region) (int64, error) {
	node, err := store.DecodeNode(t.index.Bytes(), pos, t.header.LeafThresh)
	if err != nil {
		return -1, wrapStoreErr(err)
	}
	switch r.Classify(tri) {
	case Disjoint:
		return 0, nil
	case Contains:
		return int64(node.Count), nil
	default: // Intersect or Inside
		if node.IsLeaf {
			return t.scanEntries(node.Index, node.Count, r), nil
		}
		w0, w1, w2 := tri.Midpoints()
		children := tri.Subdivide(w0, w1, w2)
		var total int64
		for i := 0; i < 4; i++ {
			if node.ChildOffset[i] == 0 {
				continue
			}
			n, err := t.countNode(children[i], node.ChildOffset[i], r)
			if err != nil {
				return -1, err
			}
			total += n
		}
		return total, nil
	}
}

func (t *Tree) scanEntries(index, count uint64, r Region) int64 {
	var n int64
	for i := index; i < index+count; i++ {
		x, y, z := t.points.At(int(i))
		if r.ContainsPoint(v3.Vec{X: x, Y: y, Z: z}) {
			n++
		}
	}
	return n
}

// TreeCallback walks the same descent as TreeCount, invoking fn for
// every matching point in depth-first, child-order-0..3 order, stopping
// early if fn returns true. Returns the number of matches observed
// before any early stop. Falls back to a scanning callback walk when no
// index is open.
func (t *Tree) TreeCallback(r Region, fn PointFunc) (int64, error) {
	if t == nil {
		return -1, newErr(ENullPtr, "TreeCallback: tree is nil")
	}
	if r == nil {
		return -1, newErr(ENullPtr, "TreeCallback: region is nil")
	}
	if fn == nil {
		return -1, newErr(ENullPtr, "TreeCallback: fn is nil")
	}
	if t.index == nil {
		return t.scanCallback(r, fn)
	}
	var total int64
	stopped := false
	for root := Root(0); root < RootCount && !stopped; root++ {
		pos := t.header.RootOffset[root]
		if pos == 0 {
			continue
		}
		n, err := t.callbackNode(RootTriangle(root), pos, r, fn, &stopped)
		if err != nil {
			return -1, err
		}
		total += n
	}
	return total, nil
}

func (t *Tree) callbackNode(tri Triangle, pos uint64, r Region, fn PointFunc, stopped *bool) (int64, error) {
	node, err := store.DecodeNode(t.index.Bytes(), pos, t.header.LeafThresh)
	if err != nil {
		return -1, wrapStoreErr(err)
	}
	class := r.Classify(tri)
	if class == Disjoint {
		return 0, nil
	}
	if node.IsLeaf || class == Contains {
		return t.emitEntries(node.Index, node.Count, r, class == Contains, fn, stopped), nil
	}
	w0, w1, w2 := tri.Midpoints()
	children := tri.Subdivide(w0, w1, w2)
	var total int64
	for i := 0; i < 4 && !*stopped; i++ {
		if node.ChildOffset[i] == 0 {
			continue
		}
		n, err := t.callbackNode(children[i], node.ChildOffset[i], r, fn, stopped)
		if err != nil {
			return -1, err
		}
		total += n
	}
	return total, nil
}

func (t *Tree) emitEntries(index, count uint64, r Region, skipTest bool, fn PointFunc, stopped *bool) int64 {
	var n int64
	for i := index; i < index+count && !*stopped; i++ {
		x, y, z := t.points.At(int(i))
		vec := v3.Vec{X: x, Y: y, Z: z}
		if !skipTest && !r.ContainsPoint(vec) {
			continue
		}
		n++
		if fn(PointView{Vec: vec, Index: i, Payload: t.payload(i), Schema: t.schema}) {
			*stopped = true
		}
	}
	return n
}

func (t *Tree) scanCallback(r Region, fn PointFunc) (int64, error) {
	var n int64
	ln := t.points.Len()
	for i := 0; i < ln; i++ {
		x, y, z := t.points.At(i)
		vec := v3.Vec{X: x, Y: y, Z: z}
		if !r.ContainsPoint(vec) {
			continue
		}
		n++
		if fn(PointView{Vec: vec, Index: uint64(i), Payload: t.payload(uint64(i)), Schema: t.schema}) {
			break
		}
	}
	return n, nil
}

func (t *Tree) payload(i uint64) []byte {
	if t.entrySize <= 24 {
		return nil
	}
	buf := t.points.Bytes()
	base := int(i) * t.entrySize
	return buf[base+24 : base+t.entrySize]
}

func wrapStoreErr(err error) error {
	se, ok := err.(*store.Error)
	if !ok {
		return newErr(EIO, err.Error())
	}
	var kind ErrorKind
	switch se.Kind {
	case store.ENullPtr:
		kind = ENullPtr
	case store.EInv:
		kind = EInv
	case store.EIO:
		kind = EIO
	case store.EMMap:
		kind = EMMap
	case store.ENoMem:
		kind = ENoMem
	case store.ETree:
		kind = ETree
	default:
		kind = EIO
	}
	return newErr(kind, se.Msg)
}

// loadFieldSchema reads an optional "<dataPath>.fields" sidecar, one
// field name per line, matching spec's "field names obtained from
// external ingest" note. Returns nil if the sidecar doesn't exist.
func loadFieldSchema(dataPath string) FieldSchema {
	f, err := os.Open(dataPath + ".fields")
	if err != nil {
		return nil
	}
	defer f.Close()
	var schema FieldSchema
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			schema = append(schema, line)
		}
	}
	return schema
}
