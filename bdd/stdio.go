// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package bdd

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Stats returns information about the BDD: size of the node table, number of
// nodes produced so far and garbage collections.
func (b *BDD) Stats() string {
	res := fmt.Sprintf("Varnum:     %d\n", b.varnum)
	res += fmt.Sprintf("Allocated:  %d\n", len(b.nodes))
	res += fmt.Sprintf("Produced:   %d\n", b.produced)
	r := (float64(b.freenum) / float64(len(b.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", b.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(b.nodes)-b.freenum, (100.0 - r))
	res += fmt.Sprintf("# of GC:    %d", len(b.history))
	if _DEBUG {
		res += "\n" + b.cacheStat.String()
	}
	return res
}

// Dot writes a graph-like description of the BDDs rooted at n to w using the
// DOT format. We do not draw arcs that go to the constant false.
func (b *BDD) Dot(w io.Writer, n ...Node) error {
	if b.error != nil {
		return b.error
	}
	nodes, err := b.collect(n...)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "1 [shape=box, label=\"1\", style=filled, height=0.3, width=0.3];")
	for _, v := range nodes {
		if v.id < 2 {
			continue
		}
		fmt.Fprintf(bw, "%d %s\n", v.id, dotlabel(v.id, v.level))
		if v.low != 0 {
			fmt.Fprintf(bw, "%d -> %d [style=dotted];\n", v.id, v.low)
		}
		if v.high != 0 {
			fmt.Fprintf(bw, "%d -> %d [style=filled];\n", v.id, v.high)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

type printed struct {
	id, level, low, high int
}

func (b *BDD) collect(n ...Node) ([]printed, error) {
	res := []printed{}
	err := b.allnodes(func(id, level, low, high int) error {
		res = append(res, printed{id, level, low, high})
		return nil
	}, n...)
	sort.Slice(res, func(i, j int) bool { return res[i].id < res[j].id })
	return res, err
}

func dotlabel(a int, b int) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, b, a)
}
