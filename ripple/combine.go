package ripple

// CombineAll derives a cell from an arbitrary list of inputs. fn receives the
// resolved input values in order; returning a cell makes it the source the
// combined value resolves through.
func CombineAll(rs *ReactiveSystem, inputs []AnyCell, fn func(values []any) any) *DerivedCell[any] {
	ins := make([]*cellNode, len(inputs))
	for i, in := range inputs {
		ins[i] = in.node()
	}
	n := newDerived(rs, ins, func(args []any, _ any) any {
		return fn(args)
	})
	d := &DerivedCell[any]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

// CombineAllTyped is CombineAll with a typed result.
func CombineAllTyped[O comparable](rs *ReactiveSystem, inputs []AnyCell, fn func(values []any) O) *DerivedCell[O] {
	ins := make([]*cellNode, len(inputs))
	for i, in := range inputs {
		ins[i] = in.node()
	}
	n := newDerived(rs, ins, func(args []any, _ any) any {
		return fn(args)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

func Combine2[T0, T1, O comparable](
	rs *ReactiveSystem,
	cell0 Observable[T0],
	cell1 Observable[T1],
	fn func(T0, T1) O,
) *DerivedCell[O] {
	n := newDerived(rs, []*cellNode{cell0.node(), cell1.node()}, func(args []any, _ any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
		)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

func Combine3[T0, T1, T2, O comparable](
	rs *ReactiveSystem,
	cell0 Observable[T0],
	cell1 Observable[T1],
	cell2 Observable[T2],
	fn func(T0, T1, T2) O,
) *DerivedCell[O] {
	n := newDerived(rs, []*cellNode{cell0.node(), cell1.node(), cell2.node()}, func(args []any, _ any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
		)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

func Combine4[T0, T1, T2, T3, O comparable](
	rs *ReactiveSystem,
	cell0 Observable[T0],
	cell1 Observable[T1],
	cell2 Observable[T2],
	cell3 Observable[T3],
	fn func(T0, T1, T2, T3) O,
) *DerivedCell[O] {
	n := newDerived(rs, []*cellNode{cell0.node(), cell1.node(), cell2.node(), cell3.node()}, func(args []any, _ any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
		)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

func Combine5[T0, T1, T2, T3, T4, O comparable](
	rs *ReactiveSystem,
	cell0 Observable[T0],
	cell1 Observable[T1],
	cell2 Observable[T2],
	cell3 Observable[T3],
	cell4 Observable[T4],
	fn func(T0, T1, T2, T3, T4) O,
) *DerivedCell[O] {
	n := newDerived(rs, []*cellNode{cell0.node(), cell1.node(), cell2.node(), cell3.node(), cell4.node()}, func(args []any, _ any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
		)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

func Combine6[T0, T1, T2, T3, T4, T5, O comparable](
	rs *ReactiveSystem,
	cell0 Observable[T0],
	cell1 Observable[T1],
	cell2 Observable[T2],
	cell3 Observable[T3],
	cell4 Observable[T4],
	cell5 Observable[T5],
	fn func(T0, T1, T2, T3, T4, T5) O,
) *DerivedCell[O] {
	n := newDerived(rs, []*cellNode{cell0.node(), cell1.node(), cell2.node(), cell3.node(), cell4.node(), cell5.node()}, func(args []any, _ any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
		)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

func Combine7[T0, T1, T2, T3, T4, T5, T6, O comparable](
	rs *ReactiveSystem,
	cell0 Observable[T0],
	cell1 Observable[T1],
	cell2 Observable[T2],
	cell3 Observable[T3],
	cell4 Observable[T4],
	cell5 Observable[T5],
	cell6 Observable[T6],
	fn func(T0, T1, T2, T3, T4, T5, T6) O,
) *DerivedCell[O] {
	n := newDerived(rs, []*cellNode{cell0.node(), cell1.node(), cell2.node(), cell3.node(), cell4.node(), cell5.node(), cell6.node()}, func(args []any, _ any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
			args[6].(T6),
		)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

func Combine8[T0, T1, T2, T3, T4, T5, T6, T7, O comparable](
	rs *ReactiveSystem,
	cell0 Observable[T0],
	cell1 Observable[T1],
	cell2 Observable[T2],
	cell3 Observable[T3],
	cell4 Observable[T4],
	cell5 Observable[T5],
	cell6 Observable[T6],
	cell7 Observable[T7],
	fn func(T0, T1, T2, T3, T4, T5, T6, T7) O,
) *DerivedCell[O] {
	n := newDerived(rs, []*cellNode{cell0.node(), cell1.node(), cell2.node(), cell3.node(), cell4.node(), cell5.node(), cell6.node(), cell7.node()}, func(args []any, _ any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
			args[6].(T6),
			args[7].(T7),
		)
	})
	d := &DerivedCell[O]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}
