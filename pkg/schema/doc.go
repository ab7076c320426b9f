// Package schema turns stored campaign records into validated flows.
//
// Campaign definitions arrive in loosely typed legacy shapes: numeric or string
// ids, options given as bare strings or as objects with jump targets, and two
// competing question lists (flow_json and questions_json). Load normalizes all of
// them and rejects anything the runtime could not execute:
//
//	record, err := schema.ParseFile("campaigns/petition.yaml")
//	if err != nil {
//	    return err
//	}
//	flow, err := schema.Load(record)
//	if errors.Is(err, domain.ErrInvalidFlow) {
//	    for _, e := range schema.ValidationErrors(err) {
//	        log.Println(e)
//	    }
//	}
//
// Validation is eager. Duplicate or missing ids, missing prompts, unknown kinds
// or validator tags, choice questions without options, dangling jump targets and
// questions that can never reach completion all fail at load time rather than in
// the middle of a conversation.
package schema
