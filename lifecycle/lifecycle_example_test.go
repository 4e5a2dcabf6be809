// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lifecycle

import (
	"context"
	"errors"
	"fmt"
)

func ExampleMultiHook() {
	one := HookFunc(func(ctx context.Context) error {
		fmt.Println("one")
		return nil
	})

	two := HookFunc(func(ctx context.Context) error {
		fmt.Println("two")
		return nil
	})

	mh := MultiHook(one, two)

	err := mh.Run(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	// Output: one
	// two
}

func ExampleMultiHook_multipleErrors() {
	oneErr := errors.New("one")
	one := HookFunc(func(ctx context.Context) error {
		return oneErr
	})

	twoErr := errors.New("two")
	two := HookFunc(func(ctx context.Context) error {
		return twoErr
	})

	mh := MultiHook(one, two)

	err := mh.Run(context.Background())
	if err == nil {
		fmt.Println("expected error")
		return
	}

	fmt.Println(errors.Is(err, oneErr), errors.Is(err, twoErr))

	// Output: true true
}

func ExampleContext() {
	lc := &Context{}
	lc.OnStart(HookFunc(func(ctx context.Context) error {
		fmt.Println("bind listener")
		return nil
	}))
	lc.OnStop(HookFunc(func(ctx context.Context) error {
		fmt.Println("flush logs")
		return nil
	}))
	lc.OnStop(HookFunc(func(ctx context.Context) error {
		fmt.Println("shutdown server")
		return nil
	}))

	ctx := NewContext(context.Background(), lc)
	c, ok := FromContext(ctx)
	if !ok {
		fmt.Println("missing lifecycle context")
		return
	}

	err := c.Start().Run(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}

	err = c.Stop().Run(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Output: bind listener
	// shutdown server
	// flush logs
}
