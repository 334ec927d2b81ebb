// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package bdd defines a concrete type for Binary Decision Diagrams (BDD), a data
structure used to efficiently represent Boolean functions over a fixed set of
variables or, equivalently, sets of Boolean vectors with a fixed size. It is
the symbolic engine behind the network analysis packages of this module.

Basics

Each BDD has a fixed number of variables, Varnum, declared when it is
initialized (using the method New) and each variable is represented by an
(integer) index in the interval [0..Varnum), called a level. The order of
levels is the variable order of the diagram.

Most operations over BDD return a Node; that is a pointer to a "vertex" in the
BDD that includes a variable level, and the address of the low and high branch
for this node. We use integer to represent the address of Nodes, with the
convention that 1 (respectively 0) is the address of the constant function True
(respectively False).

Data structures and algorithms are an adaptation of those found in the
C-library BuDDy, developed by Jorn Lind-Nielsen. The unicity table is a
standard Go runtime hashmap. On top of the classical operations (Apply, Ite,
Exist, AppEx, Satcount, ...) the package offers structural queries that are
useful when BDD size is a resource to manage: Size, Support, and a bounded
version of Apply (ApplyWithLimit) that gives up as soon as its result grows
above a given number of nodes.

To unlock logging of kernel events (garbage collections, resizing), compile
your executable with the build tag `debug`.

Automatic memory management

Like with MuDDy, a ML interface to BuDDy, we piggyback on the garbage
collection mechanism offered by our host language. We take care of BDD
resizing and memory management directly in the library, but "external"
references to BDD nodes made by user code are automatically managed by the Go
runtime. When a Node becomes unreachable, its finalizer queues the release of
the reference; queued releases are applied at the next garbage collection of
the node table, so finalizers never race with running operations.

A BDD is not safe for concurrent use by multiple goroutines.
*/
package bdd
