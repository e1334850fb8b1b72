// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

/*
Package opt contains the predicate analysis and rewrite engine of a cost-based
SQL optimizer. The engine works on immutable expression trees and never
mutates a tree it was handed: every rewrite builds a new tree that shares the
unchanged subtrees of the old one.

The sub-packages are layered as follows:

memo

The expression node model (scalar expressions and the relational operators
Scan, Select, Project and Join), their printed form, tree walking, and the
Memo factory that constructs relational expressions and assigns them
identities.

norm

Pure functions over scalar expressions: conjunct and disjunct flattening, CNF
conversion, pulling of common factors, determinism and constant analysis, and
extraction of the factors shared by every branch of a disjunction.

joinpred

Decomposition of a join condition into equi-join and non-equi leaf predicates
with per-input schema bookkeeping, and the projection of non-column join keys
as new input columns.

xform

The rewrite rules (PreFilter, PushJoinKeyExprs), the session-scoped visited
registry that keeps the rules from firing again on their own output, and the
bounded fixed-point driver that applies them.

# Column positions

Scalar expressions address the columns of their input row by position. For a
join, the row is the concatenation of the system fields and the fields of each
input, in input order. Getting these offsets wrong silently produces wrong
results, so every offset computation is covered by tests.
*/
package opt
