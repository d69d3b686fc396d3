package probe

// staticScript collects slow-changing facts. Each probe tries the Linux
// source first and falls back to the macOS/BSD equivalent; empty output
// means the field is unknown.
const staticScript = `
set -eu
SYSTEM_NAME="$(hostnamectl --pretty 2>/dev/null || true)"
if [ -z "$SYSTEM_NAME" ] && [ -r /etc/os-release ]; then
  SYSTEM_NAME="$(awk -F= '/^PRETTY_NAME=/{gsub(/^"|"$/,"",$2);print $2;exit}' /etc/os-release 2>/dev/null || true)"
fi
if [ -z "$SYSTEM_NAME" ]; then
  SYSTEM_NAME="$(uname -s 2>/dev/null || true)"
fi
KERNEL="$(uname -sr 2>/dev/null || true)"
ARCH="$(uname -m 2>/dev/null || true)"
CPU_MODEL="$(awk -F: '/model name/{print $2;exit}' /proc/cpuinfo 2>/dev/null | sed 's/^ *//' || true)"
if [ -z "$CPU_MODEL" ]; then
  CPU_MODEL="$(sysctl -n machdep.cpu.brand_string 2>/dev/null || true)"
fi
CPU_CORES="$(getconf _NPROCESSORS_ONLN 2>/dev/null || nproc 2>/dev/null || sysctl -n hw.logicalcpu 2>/dev/null || true)"
MEM_TOTAL_KB="$(awk '/MemTotal:/ {print $2;exit}' /proc/meminfo 2>/dev/null || true)"
if [ -z "$MEM_TOTAL_KB" ]; then
  MEM_BYTES="$(sysctl -n hw.memsize 2>/dev/null || true)"
  if [ -n "$MEM_BYTES" ]; then
    MEM_TOTAL_KB="$((MEM_BYTES / 1024))"
  fi
fi
printf 'system_name=%s\n' "$SYSTEM_NAME"
printf 'kernel=%s\n' "$KERNEL"
printf 'arch=%s\n' "$ARCH"
printf 'cpu_model=%s\n' "$CPU_MODEL"
printf 'cpu_cores=%s\n' "$CPU_CORES"
printf 'mem_total_kb=%s\n' "$MEM_TOTAL_KB"
`

// liveScript samples /proc twice 200ms apart for CPU percentages and
// gathers memory, load, disk and the top five processes.
const liveScript = `
set -eu
CPU_PERCENT=""
CPU_USER_PERCENT=""
CPU_SYSTEM_PERCENT=""
CPU_IOWAIT_PERCENT=""
CPU_IDLE_PERCENT=""
if [ -r /proc/stat ]; then
  LINE1="$(grep '^cpu ' /proc/stat || true)"
  CPU_CORES="$(grep -c '^cpu[0-9]' /proc/stat 2>/dev/null || true)"
  sleep 0.2
  LINE2="$(grep '^cpu ' /proc/stat || true)"
  if [ -n "$LINE1" ] && [ -n "$LINE2" ]; then
    CPU_ALL="$(awk -v A="$LINE1" -v B="$LINE2" 'BEGIN{
      split(A,a," "); split(B,b," ");
      user1=a[2]; nice1=a[3]; sys1=a[4]; idle1=a[5]; iow1=a[6];
      user2=b[2]; nice2=b[3]; sys2=b[4]; idle2=b[5]; iow2=b[6];
      total1=0; total2=0;
      for(i=2;i<=11;i++){ total1+=a[i]; total2+=b[i]; }
      dt=total2-total1;
      if(dt<=0){ print "||||"; exit; }
      user=((user2-user1)+(nice2-nice1))*100/dt;
      sys=(sys2-sys1)*100/dt;
      iow=(iow2-iow1)*100/dt;
      idle=(idle2-idle1)*100/dt;
      busy=100-idle;
      printf "%.1f|%.1f|%.1f|%.1f|%.1f", busy, user, sys, iow, idle;
    }')"
    CPU_PERCENT="$(printf '%s' "$CPU_ALL" | awk -F'|' '{print $1}')"
    CPU_USER_PERCENT="$(printf '%s' "$CPU_ALL" | awk -F'|' '{print $2}')"
    CPU_SYSTEM_PERCENT="$(printf '%s' "$CPU_ALL" | awk -F'|' '{print $3}')"
    CPU_IOWAIT_PERCENT="$(printf '%s' "$CPU_ALL" | awk -F'|' '{print $4}')"
    CPU_IDLE_PERCENT="$(printf '%s' "$CPU_ALL" | awk -F'|' '{print $5}')"
  fi
fi
if [ -z "$CPU_PERCENT" ]; then
  CPU_PERCENT="$(top -l 1 -n 0 2>/dev/null | awk -F'[:, ]+' '/CPU usage:/{print 100-$7;exit}' || true)"
fi
if [ -z "${CPU_CORES:-}" ]; then
  CPU_CORES="$(getconf _NPROCESSORS_ONLN 2>/dev/null || nproc 2>/dev/null || sysctl -n hw.logicalcpu 2>/dev/null || true)"
fi

UPTIME_SECONDS="$(awk '{print int($1)}' /proc/uptime 2>/dev/null || true)"
if [ -z "$UPTIME_SECONDS" ]; then
  UPTIME_SECONDS="$(sysctl -n kern.boottime 2>/dev/null | awk -F'[ ,}]+' '{for(i=1;i<=NF;i++) if($i=="sec"){print systime()-$(i+1); exit}}' || true)"
fi

MEM_TOTAL_KB="$(awk '/MemTotal:/ {print $2;exit}' /proc/meminfo 2>/dev/null || true)"
MEM_AVAIL_KB="$(awk '/MemAvailable:/ {print $2;exit}' /proc/meminfo 2>/dev/null || true)"
MEM_FREE_KB="$(awk '/MemFree:/ {print $2;exit}' /proc/meminfo 2>/dev/null || true)"
MEM_CACHE_KB="$(awk '/^Cached:/ {print $2;exit}' /proc/meminfo 2>/dev/null || true)"
MEM_USED_KB=""
if [ -n "$MEM_TOTAL_KB" ] && [ -n "$MEM_AVAIL_KB" ]; then
  MEM_USED_KB="$((MEM_TOTAL_KB - MEM_AVAIL_KB))"
fi
if [ -z "$MEM_TOTAL_KB" ]; then
  MEM_BYTES="$(sysctl -n hw.memsize 2>/dev/null || true)"
  if [ -n "$MEM_BYTES" ]; then
    MEM_TOTAL_KB="$((MEM_BYTES/1024))"
  fi
fi

LOAD_RAW="$(cat /proc/loadavg 2>/dev/null || uptime 2>/dev/null || true)"
LOAD_1="$(printf '%s\n' "$LOAD_RAW" | awk '{for(i=1;i<=NF;i++) if ($i ~ /^[0-9]+\.[0-9]+$/){print $i; exit}}')"
LOAD_5="$(printf '%s\n' "$LOAD_RAW" | awk '{c=0;for(i=1;i<=NF;i++) if ($i ~ /^[0-9]+\.[0-9]+$/){c++; if(c==2){print $i; exit}}}')"
LOAD_15="$(printf '%s\n' "$LOAD_RAW" | awk '{c=0;for(i=1;i<=NF;i++) if ($i ~ /^[0-9]+\.[0-9]+$/){c++; if(c==3){print $i; exit}}}')"

DISK_LINE="$(df -kP / 2>/dev/null | tail -n 1 || true)"
DISK_TOTAL_KB="$(printf '%s\n' "$DISK_LINE" | awk '{print $2}')"
DISK_USED_KB="$(printf '%s\n' "$DISK_LINE" | awk '{print $3}')"

printf 'cpu_percent=%s\n' "$CPU_PERCENT"
printf 'cpu_user_percent=%s\n' "$CPU_USER_PERCENT"
printf 'cpu_system_percent=%s\n' "$CPU_SYSTEM_PERCENT"
printf 'cpu_iowait_percent=%s\n' "$CPU_IOWAIT_PERCENT"
printf 'cpu_idle_percent=%s\n' "$CPU_IDLE_PERCENT"
printf 'cpu_cores=%s\n' "$CPU_CORES"
printf 'uptime_seconds=%s\n' "$UPTIME_SECONDS"
printf 'mem_total_kb=%s\n' "$MEM_TOTAL_KB"
printf 'mem_used_kb=%s\n' "$MEM_USED_KB"
printf 'mem_free_kb=%s\n' "$MEM_FREE_KB"
printf 'mem_page_cache_kb=%s\n' "$MEM_CACHE_KB"
printf 'load_1=%s\n' "$LOAD_1"
printf 'load_5=%s\n' "$LOAD_5"
printf 'load_15=%s\n' "$LOAD_15"
printf 'disk_root_total_kb=%s\n' "$DISK_TOTAL_KB"
printf 'disk_root_used_kb=%s\n' "$DISK_USED_KB"
ps -eo comm=,pcpu=,pmem= --sort=-pcpu 2>/dev/null | head -n 5 | while read -r cmd cpu mem; do
  [ -n "$cmd" ] || continue
  printf 'proc=%s|%s|%s\n' "$cmd" "$cpu" "$mem"
done
`
