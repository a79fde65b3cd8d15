package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/boltdb/bolt"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	componentsBucket = []byte("components")
	unindexedBucket  = []byte("unindexed")
)

func Exists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	} else if os.IsNotExist(err) {
		return false
	}

	return true
}

/*
	Store keeps component definitions between runs. Attribute sets live in
	a bolt database; a bleve index over names, values and part numbers
	answers Find.
*/
type Store struct {
	root  string
	reg   *Registry
	db    *bolt.DB
	index bleve.Index
}

type storedComponent struct {
	Name  string            `msgpack:"name"`
	Attrs []attributeRecord `msgpack:"attrs"`
}

// storeDocument is what the search index sees of a component.
type storeDocument struct {
	Name         string
	Role         string
	Package      string
	Value        string
	Description  string
	Keywords     string
	Manufacturer string
	MPN          string
	SupplierPN   string
}

/*
	OpenStore creates or opens the store under root.
*/
func OpenStore(root string, reg *Registry) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(root, "libgen.db"), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open part database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(componentsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(unindexedBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	var index bleve.Index
	ipath := filepath.Join(root, "libgen.index")
	if Exists(ipath) {
		index, err = bleve.Open(ipath)
	} else {
		index, err = bleve.New(ipath, bleve.NewIndexMapping())
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open part index: %w", err)
	}

	return &Store{
		root:  root,
		reg:   reg,
		db:    db,
		index: index,
	}, nil
}

func (s *Store) Close() error {
	ierr := s.index.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return ierr
}

func encodeComponent(c *Component) ([]byte, error) {
	rec := storedComponent{Name: c.Name()}
	for _, a := range c.Attributes() {
		rec.Attrs = append(rec.Attrs, attributeRecord{
			Kind:   string(a.Kind),
			Text:   a.Value.text,
			Number: a.Value.number,
			IsNum:  a.Value.isNum,
		})
	}
	return msgpack.Marshal(&rec)
}

func (s *Store) decodeComponent(data []byte) (*Component, error) {
	var rec storedComponent
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	c, err := NewComponent(s.reg, rec.Name)
	if err != nil {
		return nil, err
	}
	for _, a := range rec.Attrs {
		v := Text(a.Text)
		if a.IsNum {
			v = Number(a.Number)
		}
		if err := c.Set(Kind(a.Kind), v); err != nil {
			return nil, &EntityError{Symbol: rec.Name, Err: err}
		}
	}
	return c, nil
}

func document(c *Component) storeDocument {
	return storeDocument{
		Name:         c.Name(),
		Role:         c.Role(),
		Package:      c.Package(),
		Value:        DisplayValue(c),
		Description:  Description(c),
		Keywords:     Keywords(c),
		Manufacturer: c.text(KindManufacturer),
		MPN:          c.text(KindMPN),
		SupplierPN:   c.text(KindSupplierPN),
	}
}

// Put stores c, replacing any component of the same name, and indexes it.
func (s *Store) Put(c *Component) error {
	data, err := encodeComponent(c)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(componentsBucket).Put([]byte(c.Name()), data)
	}); err != nil {
		return err
	}
	return s.index.Index(c.Name(), document(c))
}

/*
	PutAll stores components in batched transactions, then indexes them.
	Names that were written but not yet indexed are kept in their own bucket
	so an interrupted import is finished by the next Reindex.
*/
func (s *Store) PutAll(ctx context.Context, components []*Component) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan *Component, 100)
	go func() {
		defer close(ch)
		for _, c := range components {
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	/*
		amount per transaction
	*/
	k := 2000
	done := false
	for !done {
		if err := s.db.Update(func(tx *bolt.Tx) error {
			stored := tx.Bucket(componentsBucket)
			unindexed := tx.Bucket(unindexedBucket)
			for j := 0; j < k; j++ {
				c, ok := <-ch
				if !ok {
					done = true
					return nil
				}

				data, err := encodeComponent(c)
				if err != nil {
					return &EntityError{Symbol: c.Name(), Err: err}
				}
				if err := stored.Put([]byte(c.Name()), data); err != nil {
					return err
				}
				if err := unindexed.Put([]byte(c.Name()), []byte{}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.Reindex()
	return err
}

/*
	Reindex indexes every component still marked unindexed and returns how
	many there were.
*/
func (s *Store) Reindex() (int, error) {
	batch := s.index.NewBatch()
	var names [][]byte

	if err := s.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(componentsBucket)
		return tx.Bucket(unindexedBucket).ForEach(func(k, _ []byte) error {
			names = append(names, append([]byte(nil), k...))

			data := stored.Get(k)
			if data == nil {
				batch.Delete(string(k))
				return nil
			}
			c, err := s.decodeComponent(data)
			if err != nil {
				return err
			}
			return batch.Index(c.Name(), document(c))
		})
	}); err != nil {
		return 0, err
	}

	if len(names) == 0 {
		return 0, nil
	}
	if err := s.index.Batch(batch); err != nil {
		return 0, err
	}

	/*
		ids are removed from unindexed once they are indexed
	*/
	err := s.db.Update(func(tx *bolt.Tx) error {
		unindexed := tx.Bucket(unindexedBucket)
		for _, k := range names {
			if err := unindexed.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return len(names), err
}

func (s *Store) Get(name string) (*Component, error) {
	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(componentsBucket).Get([]byte(name)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &EntityError{Symbol: name, Err: ErrNotFound}
	}
	return s.decodeComponent(data)
}

// Delete removes name from the store and the index. Unknown names are
// ignored.
func (s *Store) Delete(name string) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(unindexedBucket).Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket(componentsBucket).Delete([]byte(name))
	}); err != nil {
		return err
	}
	return s.index.Delete(name)
}

// Names lists stored component names in key order.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(componentsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

/*
	Catalog loads the named components, in the order given, into a new
	catalog. Without names every stored component is loaded.
*/
func (s *Store) Catalog(name string, names ...string) (*Catalog, error) {
	if len(names) == 0 {
		var err error
		if names, err = s.Names(); err != nil {
			return nil, err
		}
	}

	cat := NewCatalog(name)
	for _, n := range names {
		c, err := s.Get(n)
		if err != nil {
			return nil, err
		}
		if err := cat.Add(c); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

/*
	Find returns the names of up to limit components matching text, best
	match first. text uses the bleve query string syntax, so
	"+Package:0603 1.33K" works as well as a plain word.
*/
func (s *Store) Find(text string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	query := bleve.NewQueryStringQuery(text)
	result, err := s.index.Search(bleve.NewSearchRequestOptions(query, limit, 0, false))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		names = append(names, hit.ID)
	}
	return names, nil
}
