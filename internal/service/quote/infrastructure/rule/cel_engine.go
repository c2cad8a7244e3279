package rule

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"quoteengine/internal/service/quote/domain"
)

// CELRuleEngine 用 CEL 表达式判断优惠码附加条件，例如
//
//	service_type == "junk_removal" && order_amount >= 300.0
//
// 编译结果按表达式文本缓存。
type CELRuleEngine struct {
	env      *cel.Env
	programs sync.Map // string -> cel.Program
}

func NewCELRuleEngine() (*CELRuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("user_id", cel.StringType),
		cel.Variable("service_type", cel.StringType),
		cel.Variable("tier", cel.StringType),
		cel.Variable("zip_code", cel.StringType),
		cel.Variable("booking_source", cel.StringType),
		cel.Variable("order_amount", cel.DoubleType),
		cel.Variable("first_time", cel.BoolType),
		cel.Variable("already_used", cel.BoolType),
		cel.Variable("now", cel.TimestampType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create cel env")
	}
	return &CELRuleEngine{env: env}, nil
}

// Compile 校验表达式并缓存编译结果，结果类型必须是 bool。
func (e *CELRuleEngine) Compile(expr string) (cel.Program, error) {
	if prg, ok := e.programs.Load(expr); ok {
		return prg.(cel.Program), nil
	}

	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrap(iss.Err(), "compile promo rule")
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("promo rule must evaluate to bool, got %s", ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "build promo rule program")
	}

	actual, _ := e.programs.LoadOrStore(expr, prg)
	return actual.(cel.Program), nil
}

// Evaluate 实现 port.RuleEngine
func (e *CELRuleEngine) Evaluate(expr string, fact domain.PromoFact) (bool, error) {
	prg, err := e.Compile(expr)
	if err != nil {
		return false, err
	}

	// activation 是 map，先经 JSON 把 fact 展开
	activation, err := factToMap(fact)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(activation)
	if err != nil {
		return false, errors.Wrap(err, "evaluate promo rule")
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("promo rule returned %T", out.Value())
	}
	return ok, nil
}

func factToMap(fact domain.PromoFact) (map[string]any, error) {
	raw, err := json.Marshal(fact)
	if err != nil {
		return nil, errors.Wrap(err, "marshal promo fact")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal promo fact")
	}
	// Now 不参与 JSON，单独作为 timestamp 传入
	m["now"] = fact.Now
	return m, nil
}
