package sqlinline

const QInsertGenerationEvent = `--sql e40f651c-a8b3-44c7-a911-bb8a0ed5f6ef
insert into generation_events (id, request_id, operation, model, success, latency_ms, error, locale, created_at)
values ($1::uuid, nullif($2::text, ''), $3::text, $4::text, $5::boolean, $6::int, nullif($7::text, ''), nullif($8::text, ''), $9::timestamptz);
`

const QGenerationSummarySince = `--sql 0f0557a2-1731-4fc6-8cbe-8540b1d2b6df
select
    operation,
    count(*) filter (where success) as succeeded,
    count(*) filter (where not success) as failed,
    coalesce(avg(latency_ms), 0)::float8 as avg_latency_ms
from generation_events
where created_at >= $1::timestamptz
group by operation
order by operation;
`
