// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package bloom

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// CellsFromIndices returns a CellProducer counting how often each index of p occurs.
//
// Every produced index contributes a count of 1, so duplicates aggregate into
// a single cell. Cells are yielded in ascending index order. The source is
// read on first use and the counts are reused afterwards.
func CellsFromIndices(p IndexProducer) CellProducer {
	return &indexCells{source: p}
}

type indexCells struct {
	source IndexProducer
	counts *treemap.Map
}

func (c *indexCells) populate() {
	if c.counts != nil {
		return
	}
	c.counts = treemap.NewWith(utils.IntComparator)
	c.source.ForEachIndex(func(i int) bool {
		if v, ok := c.counts.Get(i); ok {
			c.counts.Put(i, v.(int)+1)
			return true
		}
		c.counts.Put(i, 1)
		return true
	})
}

func (c *indexCells) ForEachCell(fn func(index, count int) bool) bool {
	c.populate()
	it := c.counts.Iterator()
	for it.Next() {
		if !fn(it.Key().(int), it.Value().(int)) {
			return false
		}
	}
	return true
}

func (c *indexCells) ForEachIndex(fn func(index int) bool) bool {
	return c.ForEachCell(func(index, _ int) bool {
		return fn(index)
	})
}
